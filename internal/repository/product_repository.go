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
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrProductNotFound = errors.New("product not found")

type productRepository struct {
	db DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{db: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{db: tx}
}

const selectProduct = `
	SELECT id, name, description, price_amount::text, price_currency, stock, active, created_at, updated_at
	FROM products`

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	row := r.db.QueryRow(ctx, selectProduct+` WHERE id = $1`, productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("scanProduct: %w", ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	// The lock is held until the surrounding transaction commits or aborts,
	// serializing concurrent checkouts over the same product.
	row := r.db.QueryRow(ctx, selectProduct+` WHERE id = $1 FOR UPDATE`, productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("scanProduct: %w", ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := selectProduct + ` WHERE ($1 = false OR active) ORDER BY name`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	var productID uuid.UUID

	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price_amount, price_currency, stock, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		product.Name, product.Description,
		product.Price.Amount.String(), product.Price.Currency.String(),
		product.Stock, product.Active,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return productID, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price_amount = $4, price_currency = $5,
		     stock = $6, active = $7, updated_at = now()
		 WHERE id = $1`,
		product.ID, product.Name, product.Description,
		product.Price.Amount.String(), product.Price.Currency.String(),
		product.Stock, product.Active,
	)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrProductNotFound)
	}

	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, productID uuid.UUID, stock int32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrProductNotFound)
	}

	return nil
}

func (r *productRepository) SetActive(ctx context.Context, productID uuid.UUID, active bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`,
		productID, active)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrProductNotFound)
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p            domain.Product
		amountStr    string
		currencyCode string
	)

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &amountStr, &currencyCode,
		&p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}

	price, err := parseMoney(amountStr, currencyCode)
	if err != nil {
		return p, fmt.Errorf("parseMoney: %w", err)
	}
	p.Price = price

	return p, nil
}

func parseMoney(amountStr, currencyCode string) (domain.Money, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount[%s] is not valid: %w", amountStr, err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}
