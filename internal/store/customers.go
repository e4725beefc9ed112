package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/models"
	"github.com/pankajredekar/shopadmin/internal/validation"
)

// ListCustomers matches Query against name and email, case-insensitively
func (s *Store) ListCustomers(ctx context.Context, f models.CustomerFilter) ([]models.Customer, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	q := s.conn(ctx).Model(&models.Customer{})
	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	customers := []models.Customer{}
	if err := paginate(q.Order("name ASC, id ASC"), f.Page).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer returns one customer
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.conn(ctx).First(&customer, id).Error; err != nil {
		return nil, notFound(err, "Customer", id)
	}
	return &customer, nil
}

// CreateCustomer inserts a customer. Emails are stored lowercased and
// must be unique.
func (s *Store) CreateCustomer(ctx context.Context, in models.CustomerCreate) (*models.Customer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	customer := models.Customer{
		Name:  in.Name,
		Email: strings.ToLower(in.Email),
		Phone: in.Phone,
	}
	if err := s.conn(ctx).Create(&customer).Error; err != nil {
		return nil, customerWriteError(err, customer.Email)
	}
	return &customer, nil
}

// UpdateCustomer applies the fields present in the update
func (s *Store) UpdateCustomer(ctx context.Context, id uint, in models.CustomerUpdate) (*models.Customer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var customer models.Customer
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			return notFound(err, "Customer", id)
		}
		if in.Name != nil {
			customer.Name = *in.Name
		}
		if in.Email != nil {
			customer.Email = strings.ToLower(*in.Email)
		}
		if in.Phone != nil {
			customer.Phone = *in.Phone
		}
		if err := tx.Save(&customer).Error; err != nil {
			return customerWriteError(err, customer.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes the customer and detaches their sales, which are kept
func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return notFound(err, "Customer", id)
		}
		if err := tx.Model(&models.Sale{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach sales: %w", err)
		}
		if err := tx.Delete(&customer).Error; err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return nil
	})
}

func checkCustomer(tx *gorm.DB, customerID *uint) error {
	if customerID == nil {
		return nil
	}
	ok, err := exists(tx, "customers", *customerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Customer", *customerID)
	}
	return nil
}

func customerWriteError(err error, email string) error {
	if database.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, err, "customer with email %q already exists", email).
			WithDetail("email", email)
	}
	return fmt.Errorf("failed to save customer: %w", err)
}
