package port

import (
	"context"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	// GetProductForUpdate locks the product row until the surrounding
	// transaction commits or aborts. Only meaningful on a repository bound to
	// a transaction.
	GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	UpdateStock(ctx context.Context, productID uuid.UUID, stock int32) error
	SetActive(ctx context.Context, productID uuid.UUID, active bool) error
}
