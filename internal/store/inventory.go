package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/validation"
)

func inventoryQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("inventory").
		Select(`inventory.id, inventory.product_id, inventory.quantity, inventory.last_updated,
			products.name AS product_name, products.sku AS product_sku, products.price AS product_price,
			products.category_id, categories.name AS category_name`).
		Joins("JOIN products ON products.id = inventory.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

// ListInventory returns stock levels, lowest first
func (s *Store) ListInventory(ctx context.Context, f models.InventoryFilter) ([]models.InventoryResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	q := inventoryQuery(s.conn(ctx))
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}

	rows := []models.InventoryResponse{}
	if err := paginate(q.Order("inventory.quantity ASC, inventory.product_id ASC"), f.Page).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return rows, nil
}

// LowStock returns products whose quantity is at or below the threshold,
// lowest first. A nil threshold uses the configured default.
func (s *Store) LowStock(ctx context.Context, f models.LowStockFilter) ([]models.InventoryResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	threshold := s.lowStockThreshold
	if f.Threshold != nil {
		threshold = *f.Threshold
	}

	q := inventoryQuery(s.conn(ctx)).Where("inventory.quantity <= ?", threshold)
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}

	rows := []models.InventoryResponse{}
	if err := q.Order("inventory.quantity ASC, inventory.product_id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return rows, nil
}

// GetInventory returns the stock of one product
func (s *Store) GetInventory(ctx context.Context, productID uint) (*models.InventoryResponse, error) {
	return getInventory(s.conn(ctx), productID)
}

func getInventory(tx *gorm.DB, productID uint) (*models.InventoryResponse, error) {
	var rows []models.InventoryResponse
	if err := inventoryQuery(tx).Where("inventory.product_id = ?", productID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("Product", productID)
	}
	return &rows[0], nil
}

// InventoryHistory returns the stock movements of a product, newest first
func (s *Store) InventoryHistory(ctx context.Context, productID uint, page models.Page) ([]models.InventoryHistory, error) {
	if err := validation.Struct(page); err != nil {
		return nil, err
	}

	var inventory models.Inventory
	if err := s.conn(ctx).Where("product_id = ?", productID).First(&inventory).Error; err != nil {
		return nil, notFound(err, "Product", productID)
	}

	history := []models.InventoryHistory{}
	q := s.conn(ctx).Where("inventory_id = ?", inventory.ID).Order("timestamp DESC, id DESC")
	if err := paginate(q, page).Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory history: %w", err)
	}
	return history, nil
}

// AdjustInventory changes the stock of a product by a delta or to an
// absolute quantity and records the movement. Stock never goes negative.
func (s *Store) AdjustInventory(ctx context.Context, productID uint, adj models.InventoryAdjustment) (*models.InventoryResponse, error) {
	if err := validation.Struct(adj); err != nil {
		return nil, err
	}
	if (adj.QuantityChange == nil) == (adj.Quantity == nil) {
		return nil, apperr.Validation("exactly one of quantity_change and quantity must be set").
			WithDetail("quantity_change", "set either this or quantity").
			WithDetail("quantity", "set either this or quantity_change")
	}

	var result *models.InventoryResponse
	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		if _, err := adjustStock(tx, productID, adj.Delta, adj.Reason); err != nil {
			return err
		}
		var err error
		result, err = getInventory(tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("inventory adjusted",
		zap.Uint("product_id", productID),
		zap.Int("quantity", result.Quantity),
		zap.String("reason", adj.Reason))
	return result, nil
}

// adjustStock is the single stock mutation primitive. It locks the inventory
// row, applies delta(current) guarded by the previous quantity and appends a
// history entry. It returns errLostUpdate when the guard fails.
func adjustStock(tx *gorm.DB, productID uint, delta func(current int) int, reason string) (*models.InventoryHistory, error) {
	var inventory models.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inventory).Error
	if err != nil {
		return nil, notFound(err, "Product", productID)
	}

	change := delta(inventory.Quantity)
	next := inventory.Quantity + change
	if (change > 0 && next < inventory.Quantity) || (change < 0 && next > inventory.Quantity) {
		return nil, apperr.Validation("quantity change %d is out of range", change).
			WithDetail("quantity_change", "out of range")
	}
	if next < 0 {
		return nil, apperr.InsufficientInventory(productID, inventory.Quantity, change)
	}

	now := time.Now().UTC()
	res := tx.Model(&models.Inventory{}).
		Where("id = ? AND quantity = ?", inventory.ID, inventory.Quantity).
		Updates(map[string]any{"quantity": next, "last_updated": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errLostUpdate
	}

	entry := models.InventoryHistory{
		InventoryID:      inventory.ID,
		QuantityChange:   change,
		PreviousQuantity: inventory.Quantity,
		NewQuantity:      next,
		Reason:           reason,
		Timestamp:        now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record inventory history: %w", err)
	}
	return &entry, nil
}

// changeBy returns a delta func for a fixed change
func changeBy(n int) func(int) int {
	return func(int) int { return n }
}
