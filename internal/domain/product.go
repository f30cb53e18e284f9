package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product stock is never negative, the column carries a CHECK constraint and
// checkout decrements only under a row lock. An inactive product stays in the
// catalog for existing orders but cannot be bought again.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       Money
	Stock       int32
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Available(quantity int32) bool {
	return p.Active && p.Stock >= quantity
}
