package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name  string          `gorm:"type:varchar(255);not null" json:"name"`
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

// ProductInput is the request body for creating or replacing a product
type ProductInput struct {
	Name  string          `json:"name" validate:"notblank,max=255"`
	Price decimal.Decimal `json:"price" validate:"gt=0,lt=10000000000"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// Apply copies the input fields onto p.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.Stock = in.Stock
}
