package models

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, the frontend does arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	BaseModel
	Name        string          `gorm:"size:255;not null" json:"name"`
	RegDate     Date            `gorm:"column:reg_date;type:date;not null" json:"reg_date"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Description *string         `gorm:"type:text" json:"description"`
}

// ProductImage stores the relative path of one uploaded file.
type ProductImage struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProductID uint     `gorm:"index;not null" json:"product_id"`
	ImagePath string   `gorm:"size:512;not null" json:"image_path"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
