package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/validation"
)

// ListSales returns sales newest first with their items and customer names
func (s *Store) ListSales(ctx context.Context, f models.SaleFilter) ([]models.SaleResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return nil, apperr.Validation("start_date must not be after end_date").
			WithDetail("start_date", f.StartDate.Format(time.DateOnly)).
			WithDetail("end_date", f.EndDate.Format(time.DateOnly))
	}

	q := s.conn(ctx).Model(&models.Sale{})
	if f.StartDate != nil {
		q = q.Where("sale_date >= ?", startOfDay(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("sale_date < ?", startOfDay(*f.EndDate).AddDate(0, 0, 1))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method = ?", f.PaymentMethod)
	}
	if f.ProductID != nil {
		q = q.Where("id IN (?)", s.conn(ctx).Model(&models.SaleItem{}).
			Select("sale_id").
			Where("product_id = ?", *f.ProductID))
	}
	if f.CategoryID != nil {
		q = q.Where("id IN (?)", s.conn(ctx).Table("sale_items").
			Select("sale_items.sale_id").
			Joins("JOIN products ON products.id = sale_items.product_id").
			Where("products.category_id = ?", *f.CategoryID))
	}

	var sales []models.Sale
	if err := paginate(q.Order("sale_date DESC, id DESC"), f.Page).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return loadSaleDetails(s.conn(ctx), sales)
}

// GetSale returns a sale with its items
func (s *Store) GetSale(ctx context.Context, id uint) (*models.SaleResponse, error) {
	return getSale(s.conn(ctx), id)
}

func getSale(tx *gorm.DB, id uint) (*models.SaleResponse, error) {
	var sale models.Sale
	if err := tx.First(&sale, id).Error; err != nil {
		return nil, notFound(err, "Sale", id)
	}
	details, err := loadSaleDetails(tx, []models.Sale{sale})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// loadSaleDetails attaches items and customer names to sales with two queries
func loadSaleDetails(tx *gorm.DB, sales []models.Sale) ([]models.SaleResponse, error) {
	out := make([]models.SaleResponse, len(sales))
	if len(sales) == 0 {
		return out, nil
	}

	saleIDs := make([]uint, 0, len(sales))
	customerIDs := make([]uint, 0, len(sales))
	for _, sale := range sales {
		saleIDs = append(saleIDs, sale.ID)
		if sale.CustomerID != nil {
			customerIDs = append(customerIDs, *sale.CustomerID)
		}
	}

	var items []models.SaleItemResponse
	err := tx.Table("sale_items").
		Select("sale_items.*, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sale_items.sale_id IN ?", saleIDs).
		Order("sale_items.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}
	itemsBySale := make(map[uint][]models.SaleItemResponse, len(sales))
	for _, item := range items {
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
	}

	names := make(map[uint]string)
	if len(customerIDs) > 0 {
		var customers []models.Customer
		if err := tx.Select("id", "name").Where("id IN ?", customerIDs).Find(&customers).Error; err != nil {
			return nil, fmt.Errorf("failed to load customers: %w", err)
		}
		for _, c := range customers {
			names[c.ID] = c.Name
		}
	}

	for i, sale := range sales {
		out[i] = models.SaleResponse{Sale: sale, Items: itemsBySale[sale.ID]}
		if out[i].Items == nil {
			out[i].Items = []models.SaleItemResponse{}
		}
		if sale.CustomerID != nil {
			if name, ok := names[*sale.CustomerID]; ok {
				out[i].CustomerName = &name
			}
		}
	}
	return out, nil
}

// CreateSale records a sale priced from the catalog unless unit prices are
// given. A completed sale takes its items out of stock in the same
// transaction and fails as a whole when any item is short.
func (s *Store) CreateSale(ctx context.Context, in models.SaleCreate) (*models.SaleResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.SaleStatusCompleted
	}
	saleDate := time.Now().UTC()
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
	}

	var created *models.SaleResponse
	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		if err := checkCustomer(tx, in.CustomerID); err != nil {
			return err
		}

		items := make([]models.SaleItem, 0, len(in.Items))
		total := decimal.Zero
		for _, line := range in.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return notFound(err, "Product", line.ProductID)
			}
			price := product.Price
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.SaleItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
		}

		sale := models.Sale{
			CustomerID:    in.CustomerID,
			TotalAmount:   total,
			SaleDate:      saleDate,
			PaymentMethod: in.PaymentMethod,
			Status:        status,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}

		if status == models.SaleStatusCompleted {
			if err := moveStock(tx, items, -1, fmt.Sprintf("sale #%d", sale.ID)); err != nil {
				return err
			}
		}

		var err error
		created, err = getSale(tx, sale.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale created",
		zap.Uint("sale_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("total_amount", created.TotalAmount.StringFixed(2)))
	return created, nil
}

// UpdateSaleStatus moves a sale through its lifecycle. Entering completed
// takes stock, leaving completed puts it back.
func (s *Store) UpdateSaleStatus(ctx context.Context, id uint, in models.SaleStatusUpdate) (*models.SaleResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.SaleResponse
	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sale, id).Error; err != nil {
			return notFound(err, "Sale", id)
		}

		from, to := sale.Status, in.Status
		if !from.CanTransition(to) {
			return apperr.Conflict("cannot change sale status from %s to %s", from, to).
				WithDetail("from", from).
				WithDetail("to", to)
		}

		res := tx.Model(&models.Sale{}).
			Where("id = ? AND status = ?", sale.ID, from).
			Update("status", to)
		if res.Error != nil {
			return fmt.Errorf("failed to update sale status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errLostUpdate
		}

		var items []models.SaleItem
		if err := tx.Where("sale_id = ?", sale.ID).Order("id ASC").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load sale items: %w", err)
		}

		switch {
		case to == models.SaleStatusCompleted:
			if err := moveStock(tx, items, -1, fmt.Sprintf("sale #%d", sale.ID)); err != nil {
				return err
			}
		case from == models.SaleStatusCompleted:
			if err := moveStock(tx, items, 1, fmt.Sprintf("sale #%d %s", sale.ID, to)); err != nil {
				return err
			}
		}

		var err error
		updated, err = getSale(tx, sale.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale status changed", zap.Uint("sale_id", id), zap.String("status", string(updated.Status)))
	return updated, nil
}

// moveStock applies sign × quantity of every item to inventory
func moveStock(tx *gorm.DB, items []models.SaleItem, sign int, reason string) error {
	for _, item := range items {
		if _, err := adjustStock(tx, item.ProductID, changeBy(sign*item.Quantity), reason); err != nil {
			return err
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
