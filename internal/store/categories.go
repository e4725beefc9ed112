package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/validation"
)

// ListCategories returns categories ordered by name
func (s *Store) ListCategories(ctx context.Context, page models.Page) ([]models.Category, error) {
	if err := validation.Struct(page); err != nil {
		return nil, err
	}

	categories := []models.Category{}
	if err := paginate(s.conn(ctx).Order("name ASC, id ASC"), page).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one category
func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.conn(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "Category", id)
	}
	return &category, nil
}

// CreateCategory inserts a category with a unique name
func (s *Store) CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := s.conn(ctx).Create(&category).Error; err != nil {
		return nil, categoryWriteError(err, category.Name)
	}
	return &category, nil
}

// UpdateCategory applies the fields present in the update
func (s *Store) UpdateCategory(ctx context.Context, id uint, in models.CategoryUpdate) (*models.Category, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var category models.Category
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "Category", id)
		}
		if in.Name != nil {
			category.Name = *in.Name
		}
		if in.Description != nil {
			category.Description = *in.Description
		}
		if err := tx.Save(&category).Error; err != nil {
			return categoryWriteError(err, category.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory refuses to delete a category that still has products
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "Category", id)
		}

		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if products > 0 {
			return apperr.Conflict("category %q still has %d products", category.Name, products).
				WithDetail("category_id", id).
				WithDetail("product_count", products)
		}

		if err := tx.Delete(&category).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperr.Wrap(apperr.KindConflict, err, "category %q is still referenced", category.Name)
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func categoryWriteError(err error, name string) error {
	if database.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, err, "category %q already exists", name).
			WithDetail("name", name)
	}
	return fmt.Errorf("failed to save category: %w", err)
}
