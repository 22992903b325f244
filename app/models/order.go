package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions between them are unrestricted; only
// membership in this set is enforced.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var statuses = []string{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

// Statuses returns the valid order statuses in lifecycle order.
func Statuses() []string {
	out := make([]string, len(statuses))
	copy(out, statuses)
	return out
}

// IsValidStatus reports whether s is one of Statuses.
func IsValidStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a customer purchase. TotalAmount always equals the sum of its
// items' subtotals.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Status      string          `gorm:"size:20;not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes       *string         `gorm:"type:text" json:"notes"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CalculateTotal sums the subtotals of the loaded items.
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// OrderItem is one line of an order. UnitPrice is captured when the order is
// placed and does not follow later product price changes.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LineSubtotal is quantity × unit price.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderData is the input for placing an order.
type OrderData struct {
	UserID uint
	Items  []OrderItemData
	Status string
	Notes  *string
}

// OrderItemData is one requested line. A nil UnitPrice means "use the
// product's current price".
type OrderItemData struct {
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal
}

// QuantitiesByProduct sums requested quantities per product, keeping the
// order in which products first appear.
func (d OrderData) QuantitiesByProduct() ([]uint, map[uint]int) {
	var ids []uint
	totals := make(map[uint]int, len(d.Items))
	for _, item := range d.Items {
		if _, seen := totals[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		totals[item.ProductID] += item.Quantity
	}
	return ids, totals
}
