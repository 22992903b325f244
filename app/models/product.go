package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalogue item. Stock is changed only through the
// repository's IncreaseStock and DecreaseStock.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	IsActive    bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HasStock reports whether quantity units can be taken. Negative quantities
// are never satisfiable.
func (p Product) HasStock(quantity int) bool {
	return quantity >= 0 && p.Stock >= quantity
}

// ProductData is the input for creating or updating a product.
type ProductData struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	IsActive    bool
}
