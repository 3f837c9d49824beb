package models

// User represents a registered storefront customer.
type User struct {
	BaseModel
	Username         string  `gorm:"size:191;uniqueIndex;not null" json:"username"`
	Email            string  `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PasswordHash     string  `gorm:"size:255;not null;default:''" json:"-"`
	FirstName        string  `gorm:"size:100;not null" json:"firstName"`
	LastName         string  `gorm:"size:100;not null" json:"lastName"`
	ProfileImagePath *string `gorm:"size:512" json:"profileImagePath"`
	RegistrationDate Date    `gorm:"type:date" json:"registrationDate"`
}
