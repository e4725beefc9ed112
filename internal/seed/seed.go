// Package seed fills an empty database with demo catalog and sales data.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/store"
)

// Options control how much history is generated
type Options struct {
	Days        int       // days of sales history ending at Now
	SalesPerDay int       // upper bound, the actual count varies per day
	Now         time.Time // zero means time.Now
	Seed        uint64
}

// Summary counts what was created
type Summary struct {
	Categories int
	Products   int
	Customers  int
	Sales      int
}

type productSeed struct {
	name, sku, price, category string
	stock                      int
}

var categories = []models.CategoryCreate{
	{Name: "Electronics", Description: "Phones, audio and accessories"},
	{Name: "Home & Kitchen", Description: "Cookware and small appliances"},
	{Name: "Books", Description: "Printed books"},
	{Name: "Sports", Description: "Fitness and outdoor gear"},
}

var products = []productSeed{
	{"Wireless Earbuds", "ELEC-001", "59.99", "Electronics", 400},
	{"USB-C Charger 65W", "ELEC-002", "34.50", "Electronics", 600},
	{"Bluetooth Speaker", "ELEC-003", "89.00", "Electronics", 250},
	{"Cast Iron Skillet", "HOME-001", "42.00", "Home & Kitchen", 300},
	{"Electric Kettle", "HOME-002", "29.95", "Home & Kitchen", 350},
	{"Chef Knife", "HOME-003", "74.25", "Home & Kitchen", 8},
	{"The Go Programming Language", "BOOK-001", "38.99", "Books", 500},
	{"Designing Data-Intensive Applications", "BOOK-002", "45.00", "Books", 5},
	{"Yoga Mat", "SPRT-001", "24.99", "Sports", 450},
	{"Adjustable Dumbbells", "SPRT-002", "199.00", "Sports", 120},
}

var customers = []models.CustomerCreate{
	{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"},
	{Name: "Grace Hopper", Email: "grace@example.com", Phone: "555-0101"},
	{Name: "Alan Turing", Email: "alan@example.com"},
	{Name: "Katherine Johnson", Email: "katherine@example.com", Phone: "555-0103"},
	{Name: "Linus Torvalds", Email: "linus@example.com"},
}

var paymentMethods = []string{"card", "cash", "paypal"}

// Run seeds the store. It refuses to touch a database that already has
// categories so it can be run safely more than once.
func Run(ctx context.Context, st *store.Store, log *zap.Logger, opts Options) (*Summary, error) {
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.SalesPerDay <= 0 {
		opts.SalesPerDay = 4
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	opts.Now = opts.Now.UTC()

	existing, err := st.ListCategories(ctx, models.Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperr.Conflict("database already contains data")
	}

	summary := &Summary{}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		created, err := st.CreateCategory(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = created.ID
		summary.Categories++
	}

	productIDs := make([]uint, 0, len(products))
	for _, p := range products {
		categoryID := categoryIDs[p.category]
		price := decimal.RequireFromString(p.price)
		created, err := st.CreateProduct(ctx, models.ProductCreate{
			Name:            p.name,
			Price:           &price,
			CategoryID:      &categoryID,
			SKU:             p.sku,
			InitialQuantity: p.stock,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", p.sku, err)
		}
		productIDs = append(productIDs, created.ID)
		summary.Products++
	}

	customerIDs := make([]uint, 0, len(customers))
	for _, c := range customers {
		created, err := st.CreateCustomer(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to seed customer %q: %w", c.Email, err)
		}
		customerIDs = append(customerIDs, created.ID)
		summary.Customers++
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed))
	start := opts.Now.Truncate(24 * time.Hour).AddDate(0, 0, -opts.Days+1)
	for day := 0; day < opts.Days; day++ {
		date := start.AddDate(0, 0, day)
		for n := rng.IntN(opts.SalesPerDay + 1); n > 0; n-- {
			in := randomSale(rng, date, opts.Now, productIDs, customerIDs)
			sale, err := st.CreateSale(ctx, in)
			if apperr.Is(err, apperr.KindInsufficientInventory) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to seed sale: %w", err)
			}
			summary.Sales++

			// A few completed sales are refunded later
			if sale.Status == models.SaleStatusCompleted && rng.IntN(20) == 0 {
				if _, err := st.UpdateSaleStatus(ctx, sale.ID, models.SaleStatusUpdate{Status: models.SaleStatusRefunded}); err != nil {
					return nil, fmt.Errorf("failed to refund seeded sale %d: %w", sale.ID, err)
				}
			}
		}
	}

	log.Info("seeded demo data",
		zap.Int("categories", summary.Categories),
		zap.Int("products", summary.Products),
		zap.Int("customers", summary.Customers),
		zap.Int("sales", summary.Sales))
	return summary, nil
}

func randomSale(rng *rand.Rand, date, now time.Time, productIDs, customerIDs []uint) models.SaleCreate {
	saleDate := date.Add(time.Duration(9+rng.IntN(10))*time.Hour + time.Duration(rng.IntN(60))*time.Minute)
	if saleDate.After(now) {
		saleDate = now
	}

	in := models.SaleCreate{
		PaymentMethod: paymentMethods[rng.IntN(len(paymentMethods))],
		Status:        models.SaleStatusCompleted,
		SaleDate:      &saleDate,
	}
	if rng.IntN(10) == 0 {
		in.Status = models.SaleStatusPending
	}
	// Walk-in sales have no customer
	if rng.IntN(4) != 0 {
		id := customerIDs[rng.IntN(len(customerIDs))]
		in.CustomerID = &id
	}

	picked := rng.Perm(len(productIDs))[:1+rng.IntN(3)]
	for _, i := range picked {
		in.Items = append(in.Items, models.SaleItemCreate{
			ProductID: productIDs[i],
			Quantity:  1 + rng.IntN(3),
		})
	}
	return in
}
