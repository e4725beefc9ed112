package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Product represents a product in the catalog
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	SKU         string          `gorm:"column:sku;not null;size:50;uniqueIndex" json:"sku"`
	ImageURL    string          `gorm:"column:image_url;size:255" json:"image_url"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// ProductResponse is a product joined with its category and stock level
type ProductResponse struct {
	Product
	CategoryName      *string `json:"category_name"`
	InventoryQuantity int     `json:"inventory_quantity"`
}

// CategoryCreate is the body of POST /categories
type CategoryCreate struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type CategoryUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// ProductCreate is the body of POST /products. InitialQuantity seeds the
// inventory row.
type ProductCreate struct {
	Name            string           `json:"name" validate:"required,max=255"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price" validate:"required,gte=0"`
	CategoryID      *uint            `json:"category_id"`
	SKU             string           `json:"sku" validate:"required,min=3,max=50"`
	ImageURL        string           `json:"image_url" validate:"omitempty,url,max=255"`
	InitialQuantity int              `json:"initial_quantity" validate:"gte=0,max=1000000000"`
}

// OptionalID is a nullable id that remembers whether it was present in the
// request. An explicit null sets Set with a nil Value.
type OptionalID struct {
	Set   bool
	Value *uint
}

// SetID returns an OptionalID holding id
func SetID(id uint) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

// ClearID returns an OptionalID that clears the reference
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// ProductUpdate holds the fields to change; nil fields are left untouched.
// category_id: null detaches the product from its category.
type ProductUpdate struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID  OptionalID       `json:"category_id"`
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,min=3,max=50"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url,max=255"`
}

// ProductFilter narrows a product listing. Name matches a substring.
type ProductFilter struct {
	CategoryID *uint
	Name       string `validate:"max=255"`
	Page
}

// Page is a limit/offset window
type Page struct {
	Limit  int `validate:"min=0,max=1000"`
	Offset int `validate:"min=0"`
}

// DefaultLimit applies when a page does not set a limit
const DefaultLimit = 100

// Normalize fills in the default limit
func (p Page) Normalize() Page {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}
