package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order. Line items carry denormalized product snapshots,
// not live references, so later catalog edits never rewrite order history.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	Status    string      `json:"status" db:"status"`
	Total     float64     `json:"total" db:"total"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is a snapshot of one product at purchase time
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Quantity    int       `json:"quantity" db:"quantity"`
}
