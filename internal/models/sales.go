package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

var saleTransitions = map[SaleStatus][]SaleStatus{
	SaleStatusPending:   {SaleStatusCompleted, SaleStatusCancelled},
	SaleStatusCompleted: {SaleStatusCancelled, SaleStatusRefunded},
}

// CanTransition reports whether a sale may move from s to next
func (s SaleStatus) CanTransition(next SaleStatus) bool {
	for _, allowed := range saleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Customer is a buyer
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Sale is an order. TotalAmount equals the sum of its items' subtotals.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    *uint           `gorm:"index" json:"customer_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	SaleDate      time.Time       `gorm:"not null;index" json:"sale_date"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	Status        SaleStatus      `gorm:"not null;size:20;default:completed;index" json:"status"`
}

// TableName returns the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// TableName returns the table name for SaleItem
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleItemResponse is a sale line with its product resolved
type SaleItemResponse struct {
	SaleItem
	ProductName string `json:"product_name"`
	ProductSKU  string `gorm:"column:product_sku" json:"product_sku"`
}

// SaleResponse is a sale with its items and customer name
type SaleResponse struct {
	Sale
	CustomerName *string            `json:"customer_name"`
	Items        []SaleItemResponse `json:"items"`
}

// CustomerCreate is the body of POST /customers
type CustomerCreate struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"max=50"`
}

type CustomerUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// CustomerFilter narrows a customer listing. Query matches name or email.
type CustomerFilter struct {
	Query string `validate:"max=255"`
	Page
}

type SaleItemCreate struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// SaleCreate records a sale. Unit prices default to the product price.
type SaleCreate struct {
	CustomerID    *uint            `json:"customer_id"`
	PaymentMethod string           `json:"payment_method" validate:"max=50"`
	Status        SaleStatus       `json:"status" validate:"omitempty,oneof=pending completed"`
	SaleDate      *time.Time       `json:"sale_date,omitempty"`
	Items         []SaleItemCreate `json:"items" validate:"required,min=1,dive"`
}

// SaleStatusUpdate is the body of PATCH /sales/{id}/status
type SaleStatusUpdate struct {
	Status SaleStatus `json:"status" validate:"required,oneof=pending completed cancelled refunded"`
}

// SaleFilter narrows a sales listing. Dates are inclusive calendar days.
type SaleFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Status        SaleStatus `validate:"omitempty,oneof=pending completed cancelled refunded"`
	CustomerID    *uint
	PaymentMethod string
	ProductID     *uint
	CategoryID    *uint
	Page
}
