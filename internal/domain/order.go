package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is created atomically with its lines by checkout. Total equals the sum
// of line subtotals at creation time and is never recomputed afterwards.
type Order struct {
	ID           uuid.UUID
	CustomerName string
	Email        string
	Address      string
	Status       OrderStatus
	Total        Money
	RejectReason *string
	Lines        []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine belongs to exactly one order. Quantity and subtotal are frozen at
// order time, the subtotal keeps the price the customer actually saw.
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	Subtotal    Money

	CreatedAt time.Time
}
