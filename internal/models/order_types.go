package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the model for the 'orders' table
type Order struct {
	ID           int64           `json:"id" db:"id"`
	CustomerName string          `json:"customerName" db:"customer_name"`
	TotalAmount  decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table.
// ProductID becomes nil once the referenced product is deleted; Price keeps the snapshot.
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID *int64          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"` // Price at the time of purchase
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`

	ProductName *string `json:"productName,omitempty" db:"-"`
}

// Subtotal is price x quantity for the line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
