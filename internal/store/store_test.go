package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/testdb"
)

func newTestStore(t *testing.T) *Store {
	return New(testdb.Open(t), zap.NewNop(), 10)
}

func createCategory(t *testing.T, s *Store, name string) *models.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), models.CategoryCreate{Name: name})
	require.NoError(t, err)
	return c
}

func createProduct(t *testing.T, s *Store, sku, price string, qty int, categoryID *uint) *models.ProductResponse {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), models.ProductCreate{
		Name:            "Product " + sku,
		Price:           ptr(decimal.RequireFromString(price)),
		CategoryID:      categoryID,
		SKU:             sku,
		InitialQuantity: qty,
	})
	require.NoError(t, err)
	return p
}

func createCustomer(t *testing.T, s *Store, name, email string) *models.Customer {
	t.Helper()
	c, err := s.CreateCustomer(context.Background(), models.CustomerCreate{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}

func ptr[T any](v T) *T {
	return &v
}
