package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/caicai-studio/atelier/internal/repository"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type productRepositorySuite struct {
	suite.Suite

	repo      port.ProductRepository
	pool      *pgxpool.Pool
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

// before all tests in the suite
func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = newPool(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *productRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *productRepositorySuite) TestInsertProduct() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		productFunc func() domain.Product
	}{
		{
			name:        "valid product: ok",
			productFunc: randomProduct,
		},
		{
			name: "inactive product with zero stock: ok",
			productFunc: func() domain.Product {
				p := randomProduct()
				p.Stock = 0
				p.Active = false
				return p
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttProduct := tt.productFunc()

			productID, err := suite.repo.InsertProduct(ctx, ttProduct)
			require.NoError(t, err)

			actual, err := suite.repo.GetProduct(ctx, productID)
			require.NoError(t, err)

			assertProduct(t, ttProduct, actual)
		})
	}
}

func (suite *productRepositorySuite) TestGetProduct() {
	defer suite.deleteAll()

	suite.Run("non-existing product: not found", func() {
		t := suite.T()

		_, err := suite.repo.GetProduct(t.Context(), uuid.MustParse(gofakeit.UUID()))
		require.EqualError(t, err, "scanProduct: product not found")
	})
}

func (suite *productRepositorySuite) TestListProducts() {
	defer suite.deleteAll()

	active := randomProduct()
	active.Active = true

	inactive := randomProduct()
	inactive.Active = false

	ctx := suite.T().Context()
	_, err := suite.repo.InsertProduct(ctx, active)
	suite.NoError(err)
	_, err = suite.repo.InsertProduct(ctx, inactive)
	suite.NoError(err)

	tests := []struct {
		name       string
		activeOnly bool
		wantCount  int
	}{
		{
			name:       "all products: 2 found",
			activeOnly: false,
			wantCount:  2,
		},
		{
			name:       "active only: 1 found",
			activeOnly: true,
			wantCount:  1,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			products, err := suite.repo.ListProducts(t.Context(), tt.activeOnly)
			require.NoError(t, err)
			require.Len(t, products, tt.wantCount)

			if tt.activeOnly {
				assertProduct(t, active, products[0])
			}
		})
	}
}

func (suite *productRepositorySuite) TestUpdateStock() {
	defer suite.deleteAll()

	tests := []struct {
		name         string
		stock        int32
		targetIDFunc func(inserted uuid.UUID) uuid.UUID
		wantError    string
	}{
		{
			name:  "decrement stock: ok",
			stock: 3,
		},
		{
			name:  "stock to zero: ok",
			stock: 0,
		},
		{
			name:  "non-existing product: not found",
			stock: 1,
			targetIDFunc: func(uuid.UUID) uuid.UUID {
				return uuid.MustParse(gofakeit.UUID())
			},
			wantError: "db.Exec: product not found",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			productID, err := suite.repo.InsertProduct(ctx, randomProduct())
			require.NoError(t, err)

			targetID := productID
			if tt.targetIDFunc != nil {
				targetID = tt.targetIDFunc(productID)
			}

			err = suite.repo.UpdateStock(ctx, targetID, tt.stock)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repo.GetProduct(ctx, productID)
			require.NoError(t, err)
			assert.Equal(t, tt.stock, actual.Stock)
		})
	}
}

func (suite *productRepositorySuite) TestSetActive() {
	defer suite.deleteAll()

	ctx := suite.T().Context()

	productID, err := suite.repo.InsertProduct(ctx, randomProduct())
	suite.NoError(err)

	suite.Run("deactivate: ok", func() {
		t := suite.T()

		err := suite.repo.SetActive(t.Context(), productID, false)
		require.NoError(t, err)

		actual, err := suite.repo.GetProduct(t.Context(), productID)
		require.NoError(t, err)
		assert.False(t, actual.Active)
	})

	suite.Run("reactivate: ok", func() {
		t := suite.T()

		err := suite.repo.SetActive(t.Context(), productID, true)
		require.NoError(t, err)

		actual, err := suite.repo.GetProduct(t.Context(), productID)
		require.NoError(t, err)
		assert.True(t, actual.Active)
	})

	suite.Run("non-existing product: not found", func() {
		t := suite.T()

		err := suite.repo.SetActive(t.Context(), uuid.MustParse(gofakeit.UUID()), false)
		require.EqualError(t, err, "db.Exec: product not found")
	})
}

func (suite *productRepositorySuite) TestUpdateProduct() {
	defer suite.deleteAll()

	ctx := suite.T().Context()

	productID, err := suite.repo.InsertProduct(ctx, randomProduct())
	suite.NoError(err)

	updated := randomProduct()
	updated.ID = productID

	suite.Run("update all fields: ok", func() {
		t := suite.T()

		err := suite.repo.UpdateProduct(t.Context(), updated)
		require.NoError(t, err)

		actual, err := suite.repo.GetProduct(t.Context(), productID)
		require.NoError(t, err)

		assertProduct(t, updated, actual)
	})

	suite.Run("non-existing product: not found", func() {
		t := suite.T()

		missing := updated
		missing.ID = uuid.MustParse(gofakeit.UUID())

		err := suite.repo.UpdateProduct(t.Context(), missing)
		require.EqualError(t, err, "db.Exec: product not found")
	})
}

func (suite *productRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE products CASCADE")
	suite.NoError(err)
}

func randomProduct() domain.Product {
	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.Sentence(8),
		Price:       randomPrice(),
		Stock:       int32(gofakeit.Number(1, 50)),
		Active:      true,
	}
}

func randomPrice() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func currencyComparer() cmp.Option {
	return cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "ID", "CreatedAt", "UpdatedAt"),
		currencyComparer(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotEqual(t, uuid.Nil, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}
