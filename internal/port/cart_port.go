package port

import (
	"context"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// AddItem increments the quantity for the product, creating the entry when
	// absent.
	AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error

	// SetQuantity overwrites the quantity, quantity must be at least 1.
	SetQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error

	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)

	ClearCart(ctx context.Context, ownerID string) error
}
