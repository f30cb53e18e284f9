package port

import (
	"context"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/google/uuid"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// ListOrdersWithProduct returns orders containing the product whose status
	// is one of the given ones, used by the discontinuation cascade.
	ListOrdersWithProduct(ctx context.Context, productID uuid.UUID, statuses []domain.OrderStatus) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, rejectReason *string) error
}
