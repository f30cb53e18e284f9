package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/caicai-studio/atelier/internal/db"
	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("atelier"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func newPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := db.Apply(ctx, pool); err != nil {
		return nil, fmt.Errorf("db.Apply: %w", err)
	}

	return pool, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("testcontainers.GenericContainer: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("container.Host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return nil, "", fmt.Errorf("container.MappedPort: %w", err)
	}

	return container, fmt.Sprintf("%s:%s", host, mappedPort.Port()), nil
}

func randomCustomer() domain.Customer {
	return domain.Customer{
		ID:      gofakeit.UUID(),
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Address: gofakeit.Address().Address,
		Phone:   gofakeit.Phone(),
	}
}

// eurProduct builds a product priced in a single fixed currency, so carts
// assembled from several of them always have a meaningful total.
func eurProduct(stock int32) domain.Product {
	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.Sentence(8),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
			Currency: currency.EUR,
		},
		Stock:  stock,
		Active: true,
	}
}
