package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultRejectReason = "no reason given"

// OrderService drives the post-checkout order state machine. All transitions
// are administrator-initiated except the discontinuation cascade, which is
// triggered deterministically by deactivating a product.
type OrderService struct {
	pool *pgxpool.Pool
}

func NewOrders(pool *pgxpool.Pool) *OrderService {
	return &OrderService{pool: pool}
}

// UpdateStatus applies one transition from the legality table and writes one
// audit entry describing it. Re-rejecting a rejected order only overwrites
// the reason and is logged distinctly.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus, reason string) (domain.Order, error) {
	var o domain.Order

	if _, err := domain.ToOrderStatus(string(target)); err != nil {
		return o, domain.Validationf("invalid target status %q", target)
	}

	order, err := runInTx(ctx, s.pool, func(tx pgx.Tx) (domain.Order, error) {
		orders := repository.NewOrderWithTx(tx)
		audit := repository.NewAuditWithTx(tx)

		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("orders.GetOrder: %w", err)
		}

		if !order.Status.CanTransitionTo(target) {
			return o, domain.Validationf("order %s cannot transition from %s to %s", orderID, order.Status, target)
		}

		var rejectReason *string
		if target == domain.OrderStatusRejected {
			r := reason
			if r == "" {
				r = defaultRejectReason
			}
			rejectReason = &r
		}

		if err := orders.UpdateOrderStatus(ctx, orderID, target, rejectReason); err != nil {
			return o, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		action := fmt.Sprintf("order %s -> %s", orderID, target)
		if order.Status == domain.OrderStatusRejected && target == domain.OrderStatusRejected {
			action = fmt.Sprintf("order %s -> rejected (reason updated)", orderID)
		}

		if err := audit.Record(ctx, order.CustomerName, order.Email, action); err != nil {
			return o, fmt.Errorf("audit.Record: %w", err)
		}

		order.Status = target
		order.RejectReason = rejectReason

		return order, nil
	})
	if err != nil {
		return o, err
	}

	slog.Info("order status updated", "order_id", orderID, "status", target)

	return order, nil
}

// DiscontinueProduct deactivates the product and force-rejects every order
// containing it that has not reached a terminal status, as one all-or-nothing
// batch. Finalized and rejected orders are left untouched.
func (s *OrderService) DiscontinueProduct(ctx context.Context, productID uuid.UUID) ([]domain.Order, error) {
	rejected, err := runInTx(ctx, s.pool, func(tx pgx.Tx) ([]domain.Order, error) {
		products := repository.NewProductWithTx(tx)
		orders := repository.NewOrderWithTx(tx)
		audit := repository.NewAuditWithTx(tx)

		if err := products.SetActive(ctx, productID, false); err != nil {
			return nil, fmt.Errorf("products.SetActive: %w", err)
		}

		open, err := orders.ListOrdersWithProduct(ctx, productID, []domain.OrderStatus{
			domain.OrderStatusPending,
			domain.OrderStatusInProcess,
		})
		if err != nil {
			return nil, fmt.Errorf("orders.ListOrdersWithProduct: %w", err)
		}

		reason := "product discontinued"

		var rejected []domain.Order
		for _, order := range open {
			if err := orders.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusRejected, &reason); err != nil {
				return nil, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
			}

			action := fmt.Sprintf("order %s -> rejected (product discontinued)", order.ID)
			if err := audit.Record(ctx, order.CustomerName, order.Email, action); err != nil {
				return nil, fmt.Errorf("audit.Record: %w", err)
			}

			order.Status = domain.OrderStatusRejected
			order.RejectReason = &reason
			rejected = append(rejected, order)
		}

		return rejected, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("product discontinued", "product_id", productID, "orders_rejected", len(rejected))

	return rejected, nil
}
