package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/caicai-studio/atelier/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckoutService converts a session cart into a durable order while
// reserving inventory. The whole reservation runs in one transaction with
// row locks on every product, so two checkouts racing over shared stock
// serialize on the first locked row and the loser sees the decremented stock.
type CheckoutService struct {
	pool  *pgxpool.Pool
	carts port.CartRepository
}

func NewCheckout(pool *pgxpool.Pool, carts port.CartRepository) *CheckoutService {
	return &CheckoutService{
		pool:  pool,
		carts: carts,
	}
}

// Checkout is all-or-nothing: any failing cart line aborts the attempt with
// an aggregated report and no side effects. On success the returned cart is
// emptied, the redis copy is cleared only after the transaction commits.
func (s *CheckoutService) Checkout(ctx context.Context, customer domain.Customer, cart domain.Cart) (domain.Order, domain.Cart, error) {
	var o domain.Order

	if customer.Blocked {
		return o, cart, domain.Conflictf("customer %s is blocked", customer.Name)
	}

	if cart.IsEmpty() {
		return o, cart, domain.Validationf("cart is empty")
	}

	for productID, quantity := range cart.Items {
		if quantity < 1 {
			return o, cart, domain.Validationf("quantity for product %s must be at least 1, got %d", productID, quantity)
		}
	}

	order, err := s.reserveAndCreate(ctx, customer, cart)
	if err != nil {
		return o, cart, err
	}

	// Only after commit. A failed clear leaves a stale cart behind, which the
	// next checkout attempt will re-validate anyway.
	if err := s.carts.ClearCart(ctx, cart.OwnerID); err != nil {
		slog.Warn("cart not cleared after checkout", "owner_id", cart.OwnerID, "error", err)
	}

	slog.Info("checkout completed", "order_id", order.ID, "total", order.Total.String())

	return order, domain.NewCart(cart.OwnerID), nil
}

func (s *CheckoutService) reserveAndCreate(ctx context.Context, customer domain.Customer, cart domain.Cart) (domain.Order, error) {
	return runInTx(ctx, s.pool, func(tx pgx.Tx) (domain.Order, error) {
		var o domain.Order

		products := repository.NewProductWithTx(tx)
		orders := repository.NewOrderWithTx(tx)
		audit := repository.NewAuditWithTx(tx)

		locked, conflicts, err := lockAndValidate(ctx, products, cart)
		if err != nil {
			return o, err
		}

		if len(conflicts) > 0 {
			return o, domain.ConflictError{Reason: "not enough stock for", Lines: conflicts}
		}

		order, err := buildOrder(customer, cart, locked)
		if err != nil {
			return o, err
		}

		orderID, err := orders.InsertOrder(ctx, order)
		if err != nil {
			return o, fmt.Errorf("orders.InsertOrder: %w", err)
		}
		order.ID = orderID

		for _, productID := range sortedProductIDs(cart) {
			product := locked[productID]
			if err := products.UpdateStock(ctx, productID, product.Stock-cart.Quantity(productID)); err != nil {
				return o, fmt.Errorf("products.UpdateStock: %w", err)
			}
		}

		if err := audit.Record(ctx, customer.Name, customer.Email, fmt.Sprintf("order %s created", orderID)); err != nil {
			return o, fmt.Errorf("audit.Record: %w", err)
		}

		return order, nil
	})
}

// lockAndValidate acquires the row locks in ascending product-id order, so
// concurrent checkouts over overlapping carts cannot deadlock. Every failing
// line is collected, never just the first one.
func lockAndValidate(ctx context.Context, products port.ProductRepository, cart domain.Cart) (map[uuid.UUID]domain.Product, []domain.LineConflict, error) {
	locked := make(map[uuid.UUID]domain.Product, len(cart.Items))

	var conflicts []domain.LineConflict

	for _, productID := range sortedProductIDs(cart) {
		requested := cart.Quantity(productID)

		product, err := products.GetProductForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				// A stale cart entry, the product row is gone.
				conflicts = append(conflicts, domain.LineConflict{
					ProductName: productID.String(),
					Available:   0,
					Requested:   requested,
				})
				continue
			}
			return nil, nil, fmt.Errorf("products.GetProductForUpdate: %w", err)
		}

		if !product.Active {
			conflicts = append(conflicts, domain.LineConflict{
				ProductName: product.Name,
				Available:   0,
				Requested:   requested,
			})
			continue
		}

		if product.Stock < requested {
			conflicts = append(conflicts, domain.LineConflict{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   requested,
			})
			continue
		}

		locked[productID] = product
	}

	return locked, conflicts, nil
}

func buildOrder(customer domain.Customer, cart domain.Cart, locked map[uuid.UUID]domain.Product) (domain.Order, error) {
	var o domain.Order

	productIDs := sortedProductIDs(cart)

	// An order carries a single currency, the catalog is expected to be
	// uniform but a mixed cart must not produce a meaningless total.
	unit := locked[productIDs[0]].Price.Currency
	total := domain.Money{Currency: unit}

	var lines []domain.OrderLine
	for _, productID := range productIDs {
		product := locked[productID]
		quantity := cart.Quantity(productID)

		subtotal := product.Price.Mul(quantity)

		summed, err := total.Add(subtotal)
		if err != nil {
			return o, domain.Validationf("cart mixes currencies: %v", err)
		}
		total = summed

		lines = append(lines, domain.OrderLine{
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    quantity,
			Subtotal:    subtotal,
		})
	}

	address := customer.Address
	if address == "" {
		address = "no address given"
	}

	return domain.Order{
		CustomerName: customer.Name,
		Email:        customer.Email,
		Address:      address,
		Status:       domain.OrderStatusPending,
		Total:        total,
		Lines:        lines,
	}, nil
}

func sortedProductIDs(cart domain.Cart) []uuid.UUID {
	ids := cart.ProductIDs()

	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	return ids
}
