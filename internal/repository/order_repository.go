package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

var ErrOrderNotFound = errors.New("order not found")

type orderRepository struct {
	db DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.db, func(q DBTX) (domain.Order, error) {
		row := q.QueryRow(ctx,
			`SELECT id, customer_name, email, address, status, total_amount::text, total_currency,
			        reject_reason, created_at, updated_at
			 FROM orders WHERE id = $1`, orderID)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("scanOrder: %w", ErrOrderNotFound)
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		lines, err := getOrderLines(ctx, q, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderLines: %w", err)
		}
		order.Lines = lines

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Lines) == 0 {
		return uuid.Nil, errors.New("no lines in order")
	}

	orderID, err := withTx(ctx, r.db, func(q DBTX) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := q.QueryRow(ctx,
			`INSERT INTO orders (customer_name, email, address, status, total_amount, total_currency, reject_reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			order.CustomerName, order.Email, order.Address,
			string(statusOrPending(order.Status)),
			order.Total.Amount.String(), order.Total.Currency.String(),
			order.RejectReason,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for _, line := range order.Lines {
			_, err := q.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, quantity, subtotal_amount, subtotal_currency)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				orderID, line.ProductID, line.ProductName, line.Quantity,
				line.Subtotal.Amount.String(), line.Subtotal.Currency.String(),
			)
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, rejectReason *string) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if status == "" {
		return fmt.Errorf("status is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, reject_reason = $3, updated_at = now() WHERE id = $1`,
		orderID, string(status), rejectReason)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrOrderNotFound)
	}

	return nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var statuses []string
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	var createdAfter, createdBefore any
	if filter.CreatedAt != nil {
		if filter.CreatedAt.After != nil {
			createdAfter = *filter.CreatedAt.After
		}
		if filter.CreatedAt.Before != nil {
			createdBefore = *filter.CreatedAt.Before
		}
	}

	rows, err := r.db.Query(ctx,
		`SELECT o.id, o.customer_name, o.email, o.address, o.status, o.total_amount::text, o.total_currency,
		        o.reject_reason, o.created_at, o.updated_at,
		        i.product_id, i.product_name, i.quantity, i.subtotal_amount::text, i.subtotal_currency, i.created_at
		 FROM orders o
		 JOIN order_items i ON i.order_id = o.id
		 WHERE ($1::uuid[] IS NULL OR o.id = ANY ($1))
		   AND ($2::text[] IS NULL OR o.email = ANY ($2))
		   AND ($3::text[] IS NULL OR o.status = ANY ($3))
		   AND ($4::timestamptz IS NULL OR o.created_at >= $4)
		   AND ($5::timestamptz IS NULL OR o.created_at <= $5)
		 ORDER BY o.created_at DESC`,
		nilSliceIfEmpty(filter.IDs),
		nilSliceIfEmpty(filter.Emails),
		nilSliceIfEmpty(statuses),
		createdAfter, createdBefore,
	)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	// Use a map to group orders and their lines
	orderMap := make(map[uuid.UUID]domain.Order)
	for rows.Next() {
		order, line, err := scanOrderWithLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderWithLine: %w", err)
		}

		if existing, exists := orderMap[order.ID]; exists {
			order = existing
		}
		order.Lines = append(order.Lines, line)
		orderMap[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lo.Values(orderMap), nil
}

func (r *orderRepository) ListOrdersWithProduct(ctx context.Context, productID uuid.UUID, statuses []domain.OrderStatus) ([]domain.Order, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("productID is empty")
	}

	var statusStrings []string
	for _, status := range statuses {
		statusStrings = append(statusStrings, string(status))
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT o.id, o.customer_name, o.email, o.address, o.status, o.total_amount::text, o.total_currency,
		        o.reject_reason, o.created_at, o.updated_at
		 FROM orders o
		 JOIN order_items i ON i.order_id = o.id
		 WHERE i.product_id = $1
		   AND ($2::text[] IS NULL OR o.status = ANY ($2))
		 ORDER BY o.created_at`,
		productID, nilSliceIfEmpty(statusStrings))
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return orders, nil
}

func getOrderLines(ctx context.Context, q DBTX, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := q.Query(ctx,
		`SELECT product_id, product_name, quantity, subtotal_amount::text, subtotal_currency, created_at
		 FROM order_items WHERE order_id = $1
		 ORDER BY product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderLine: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lines, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o             domain.Order
		statusStr     string
		totalAmount   string
		totalCurrency string
	)

	if err := row.Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &statusStr,
		&totalAmount, &totalCurrency, &o.RejectReason, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}

	status, err := domain.ToOrderStatus(statusStr)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusStr, err)
	}
	o.Status = status

	total, err := parseMoney(totalAmount, totalCurrency)
	if err != nil {
		return o, fmt.Errorf("parseMoney: %w", err)
	}
	o.Total = total

	return o, nil
}

func scanOrderLine(row pgx.Row) (domain.OrderLine, error) {
	var (
		line             domain.OrderLine
		subtotalAmount   string
		subtotalCurrency string
	)

	if err := row.Scan(&line.ProductID, &line.ProductName, &line.Quantity,
		&subtotalAmount, &subtotalCurrency, &line.CreatedAt); err != nil {
		return line, err
	}

	subtotal, err := parseMoney(subtotalAmount, subtotalCurrency)
	if err != nil {
		return line, fmt.Errorf("parseMoney: %w", err)
	}
	line.Subtotal = subtotal

	return line, nil
}

func scanOrderWithLine(row pgx.Row) (domain.Order, domain.OrderLine, error) {
	var (
		o                domain.Order
		line             domain.OrderLine
		statusStr        string
		totalAmount      string
		totalCurrency    string
		subtotalAmount   string
		subtotalCurrency string
	)

	if err := row.Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &statusStr,
		&totalAmount, &totalCurrency, &o.RejectReason, &o.CreatedAt, &o.UpdatedAt,
		&line.ProductID, &line.ProductName, &line.Quantity,
		&subtotalAmount, &subtotalCurrency, &line.CreatedAt); err != nil {
		return o, line, err
	}

	status, err := domain.ToOrderStatus(statusStr)
	if err != nil {
		return o, line, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusStr, err)
	}
	o.Status = status

	total, err := parseMoney(totalAmount, totalCurrency)
	if err != nil {
		return o, line, fmt.Errorf("parseMoney: %w", err)
	}
	o.Total = total

	subtotal, err := parseMoney(subtotalAmount, subtotalCurrency)
	if err != nil {
		return o, line, fmt.Errorf("parseMoney: %w", err)
	}
	line.Subtotal = subtotal

	return o, line, nil
}

func statusOrPending(status domain.OrderStatus) domain.OrderStatus {
	if status == "" {
		return domain.OrderStatusPending
	}
	return status
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
