package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:191;uniqueIndex;not null" json:"name"`
}

// ProductCategory is the join row between products and categories.
type ProductCategory struct {
	ProductID  uint      `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Product    *Product  `gorm:"constraint:OnDelete:CASCADE"`
	Category   *Category `gorm:"constraint:OnDelete:CASCADE"`
}
