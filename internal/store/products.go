package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/validation"
)

const initialStockReason = "initial stock"

func productQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("products").
		Select("products.*, categories.name AS category_name, COALESCE(inventory.quantity, 0) AS inventory_quantity").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN inventory ON inventory.product_id = products.id")
}

// ListProducts returns products ordered by name, optionally narrowed to a
// category and a case-insensitive name fragment
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.ProductResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	q := productQuery(s.conn(ctx))
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	products := []models.ProductResponse{}
	if err := paginate(q.Order("products.name ASC, products.id ASC"), f.Page).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a product with its category name and stock
func (s *Store) GetProduct(ctx context.Context, id uint) (*models.ProductResponse, error) {
	return getProduct(s.conn(ctx), id)
}

func getProduct(tx *gorm.DB, id uint) (*models.ProductResponse, error) {
	var products []models.ProductResponse
	if err := productQuery(tx).Where("products.id = ?", id).Limit(1).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if len(products) == 0 {
		return nil, apperr.NotFound("Product", id)
	}
	return &products[0], nil
}

// CreateProduct inserts the product together with its inventory row
func (s *Store) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var created *models.ProductResponse
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, in.CategoryID); err != nil {
			return err
		}

		product := models.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       *in.Price,
			CategoryID:  in.CategoryID,
			SKU:         in.SKU,
			ImageURL:    in.ImageURL,
		}
		if err := tx.Create(&product).Error; err != nil {
			return productWriteError(err, product.SKU)
		}

		now := time.Now().UTC()
		inventory := models.Inventory{ProductID: product.ID, Quantity: in.InitialQuantity, LastUpdated: now}
		if err := tx.Create(&inventory).Error; err != nil {
			return fmt.Errorf("failed to create inventory: %w", err)
		}
		if in.InitialQuantity > 0 {
			entry := models.InventoryHistory{
				InventoryID:    inventory.ID,
				QuantityChange: in.InitialQuantity,
				NewQuantity:    in.InitialQuantity,
				Reason:         initialStockReason,
				Timestamp:      now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to record inventory history: %w", err)
			}
		}

		var err error
		created, err = getProduct(tx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProduct applies the fields present in the update
func (s *Store) UpdateProduct(ctx context.Context, id uint, in models.ProductUpdate) (*models.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.ProductResponse
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return notFound(err, "Product", id)
		}
		if in.CategoryID.Set {
			if err := checkCategory(tx, in.CategoryID.Value); err != nil {
				return err
			}
		}

		changes := map[string]any{}
		if in.Name != nil {
			changes["name"] = *in.Name
		}
		if in.Description != nil {
			changes["description"] = *in.Description
		}
		if in.Price != nil {
			changes["price"] = *in.Price
		}
		if in.CategoryID.Set {
			changes["category_id"] = in.CategoryID.Value
		}
		sku := product.SKU
		if in.SKU != nil {
			sku = *in.SKU
			changes["sku"] = sku
		}
		if in.ImageURL != nil {
			changes["image_url"] = *in.ImageURL
		}

		if len(changes) > 0 {
			if err := tx.Model(&product).Updates(changes).Error; err != nil {
				return productWriteError(err, sku)
			}
		}

		var err error
		updated, err = getProduct(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes a product with its inventory and history. Products
// that appear on a sale are kept.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return notFound(err, "Product", id)
		}

		var sold int64
		if err := tx.Model(&models.SaleItem{}).Where("product_id = ?", id).Count(&sold).Error; err != nil {
			return fmt.Errorf("failed to count sale items: %w", err)
		}
		if sold > 0 {
			return apperr.Conflict("product %q appears on %d sale items", product.SKU, sold).
				WithDetail("product_id", id).
				WithDetail("sale_item_count", sold)
		}

		inventoryIDs := tx.Model(&models.Inventory{}).Select("id").Where("product_id = ?", id)
		if err := tx.Where("inventory_id IN (?)", inventoryIDs).Delete(&models.InventoryHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete inventory history: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Inventory{}).Error; err != nil {
			return fmt.Errorf("failed to delete inventory: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func checkCategory(tx *gorm.DB, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	ok, err := exists(tx, "categories", *categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Category", *categoryID)
	}
	return nil
}

func productWriteError(err error, sku string) error {
	if database.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, err, "product with SKU %q already exists", sku).
			WithDetail("sku", sku)
	}
	if database.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.KindNotFound, err, "referenced category does not exist")
	}
	return fmt.Errorf("failed to save product: %w", err)
}
