package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func quantityOf(t *testing.T, s *Store, productID uint) int {
	t.Helper()
	inv, err := s.GetInventory(context.Background(), productID)
	require.NoError(t, err)
	return inv.Quantity
}

func TestCreateSaleDeductsStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := createCustomer(t, s, "Ada", "ada@example.com")
	hammer := createProduct(t, s, "HAM001", "12.50", 10, nil)
	saw := createProduct(t, s, "SAW001", "30.00", 5, nil)

	sale, err := s.CreateSale(ctx, models.SaleCreate{
		CustomerID:    &c.ID,
		PaymentMethod: "card",
		Items: []models.SaleItemCreate{
			{ProductID: hammer.ID, Quantity: 2},
			{ProductID: saw.ID, Quantity: 1, UnitPrice: ptr(decimal.RequireFromString("27.99"))},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusCompleted, sale.Status)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "25.00", sale.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "HAM001", sale.Items[0].ProductSKU)
	assert.Equal(t, "27.99", sale.Items[1].UnitPrice.StringFixed(2))

	sum := decimal.Zero
	for _, item := range sale.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sale.TotalAmount.Equal(sum), "total %s != %s", sale.TotalAmount, sum)
	assert.Equal(t, "52.99", sale.TotalAmount.StringFixed(2))
	require.NotNil(t, sale.CustomerName)
	assert.Equal(t, "Ada", *sale.CustomerName)

	assert.Equal(t, 8, quantityOf(t, s, hammer.ID))
	assert.Equal(t, 4, quantityOf(t, s, saw.ID))

	history, err := s.InventoryHistory(ctx, hammer.ID, models.Page{Limit: 1})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "sale #1", history[0].Reason)
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	hammer := createProduct(t, s, "HAM001", "12.50", 10, nil)
	saw := createProduct(t, s, "SAW001", "30.00", 1, nil)

	_, err := s.CreateSale(ctx, models.SaleCreate{Items: []models.SaleItemCreate{
		{ProductID: hammer.ID, Quantity: 2},
		{ProductID: saw.ID, Quantity: 3},
	}})
	requireKind(t, err, apperr.KindInsufficientInventory)

	assert.Equal(t, 10, quantityOf(t, s, hammer.ID))
	assert.Equal(t, 1, quantityOf(t, s, saw.ID))

	sales, err := s.ListSales(ctx, models.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreateSaleInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := createProduct(t, s, "HAM001", "1", 10, nil)

	_, err := s.CreateSale(ctx, models.SaleCreate{})
	requireKind(t, err, apperr.KindValidation)

	_, err = s.CreateSale(ctx, models.SaleCreate{Items: []models.SaleItemCreate{{ProductID: p.ID, Quantity: 0}}})
	requireKind(t, err, apperr.KindValidation)

	_, err = s.CreateSale(ctx, models.SaleCreate{Items: []models.SaleItemCreate{{ProductID: 404, Quantity: 1}}})
	requireKind(t, err, apperr.KindNotFound)

	_, err = s.CreateSale(ctx, models.SaleCreate{
		CustomerID: ptr(uint(404)),
		Items:      []models.SaleItemCreate{{ProductID: p.ID, Quantity: 1}},
	})
	requireKind(t, err, apperr.KindNotFound)

	_, err = s.CreateSale(ctx, models.SaleCreate{
		Status: models.SaleStatusRefunded,
		Items:  []models.SaleItemCreate{{ProductID: p.ID, Quantity: 1}},
	})
	requireKind(t, err, apperr.KindValidation)
}

func TestSaleStatusTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := createProduct(t, s, "HAM001", "5", 10, nil)

	pending, err := s.CreateSale(ctx, models.SaleCreate{
		Status: models.SaleStatusPending,
		Items:  []models.SaleItemCreate{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, quantityOf(t, s, p.ID))

	completed, err := s.UpdateSaleStatus(ctx, pending.ID, models.SaleStatusUpdate{Status: models.SaleStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusCompleted, completed.Status)
	assert.Equal(t, 6, quantityOf(t, s, p.ID))

	cancelled, err := s.UpdateSaleStatus(ctx, pending.ID, models.SaleStatusUpdate{Status: models.SaleStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, quantityOf(t, s, p.ID))

	history, err := s.InventoryHistory(ctx, p.ID, models.Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "sale #1 cancelled", history[0].Reason)

	_, err = s.UpdateSaleStatus(ctx, pending.ID, models.SaleStatusUpdate{Status: models.SaleStatusCompleted})
	requireKind(t, err, apperr.KindConflict)

	_, err = s.UpdateSaleStatus(ctx, 999, models.SaleStatusUpdate{Status: models.SaleStatusCancelled})
	requireKind(t, err, apperr.KindNotFound)
}

func TestRefundRestocks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := createProduct(t, s, "HAM001", "5", 10, nil)
	sale, err := s.CreateSale(ctx, models.SaleCreate{Items: []models.SaleItemCreate{{ProductID: p.ID, Quantity: 3}}})
	require.NoError(t, err)
	assert.Equal(t, 7, quantityOf(t, s, p.ID))

	_, err = s.UpdateSaleStatus(ctx, sale.ID, models.SaleStatusUpdate{Status: models.SaleStatusRefunded})
	require.NoError(t, err)
	assert.Equal(t, 10, quantityOf(t, s, p.ID))

	_, err = s.UpdateSaleStatus(ctx, sale.ID, models.SaleStatusUpdate{Status: models.SaleStatusCompleted})
	requireKind(t, err, apperr.KindConflict)
}

func TestListSalesFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tools := createCategory(t, s, "Tools")
	hammer := createProduct(t, s, "HAM001", "10", 100, &tools.ID)
	tee := createProduct(t, s, "TEE001", "5", 100, nil)
	ada := createCustomer(t, s, "Ada", "ada@example.com")

	mk := func(date string, productID uint, method string, customerID *uint) {
		d := day(date).Add(15 * time.Hour)
		_, err := s.CreateSale(ctx, models.SaleCreate{
			SaleDate:      &d,
			PaymentMethod: method,
			CustomerID:    customerID,
			Items:         []models.SaleItemCreate{{ProductID: productID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	mk("2024-01-01", hammer.ID, "card", &ada.ID)
	mk("2024-01-02", tee.ID, "cash", nil)
	mk("2024-01-03", hammer.ID, "cash", nil)

	all, err := s.ListSales(ctx, models.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-03", all[0].SaleDate.Format(time.DateOnly))

	ranged, err := s.ListSales(ctx, models.SaleFilter{StartDate: ptr(day("2024-01-02")), EndDate: ptr(day("2024-01-03"))})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	byProduct, err := s.ListSales(ctx, models.SaleFilter{ProductID: &tee.ID})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, "TEE001", byProduct[0].Items[0].ProductSKU)

	byCategory, err := s.ListSales(ctx, models.SaleFilter{CategoryID: &tools.ID, PaymentMethod: "cash"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "2024-01-03", byCategory[0].SaleDate.Format(time.DateOnly))

	byCustomer, err := s.ListSales(ctx, models.SaleFilter{CustomerID: &ada.ID})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	_, err = s.ListSales(ctx, models.SaleFilter{StartDate: ptr(day("2024-02-01")), EndDate: ptr(day("2024-01-01"))})
	requireKind(t, err, apperr.KindValidation)
}

func TestSaleStatusRetriesLostUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := createProduct(t, s, "HAM001", "5", 10, nil)
	pending, err := s.CreateSale(ctx, models.SaleCreate{
		Status: models.SaleStatusPending,
		Items:  []models.SaleItemCreate{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	seen := interfereWithUpdates(t, s, "sales", "UPDATE sales SET status = 'cancelled'", 1)

	completed, err := s.UpdateSaleStatus(ctx, pending.ID, models.SaleStatusUpdate{Status: models.SaleStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 2, *seen)
	assert.Equal(t, models.SaleStatusCompleted, completed.Status)
	assert.Equal(t, 6, quantityOf(t, s, p.ID))
}
