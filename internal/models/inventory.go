package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is the stock level of a single product
type Inventory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;uniqueIndex" json:"product_id"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
}

// TableName returns the table name for Inventory
func (Inventory) TableName() string {
	return "inventory"
}

// InventoryHistory is one append-only stock movement.
// PreviousQuantity + QuantityChange == NewQuantity.
type InventoryHistory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InventoryID      uint      `gorm:"not null;index" json:"inventory_id"`
	QuantityChange   int       `gorm:"not null" json:"quantity_change"`
	PreviousQuantity int       `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int       `gorm:"not null" json:"new_quantity"`
	Reason           string    `gorm:"size:255" json:"reason"`
	Timestamp        time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName returns the table name for InventoryHistory
func (InventoryHistory) TableName() string {
	return "inventory_history"
}

// InventoryResponse is an inventory row joined with its product
type InventoryResponse struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	Quantity     int             `json:"quantity"`
	LastUpdated  time.Time       `json:"last_updated"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `gorm:"column:product_sku" json:"product_sku"`
	ProductPrice decimal.Decimal `json:"product_price"`
	CategoryID   *uint           `json:"category_id"`
	CategoryName *string         `json:"category_name"`
}

// InventoryAdjustment changes stock either by a delta or to an absolute level.
// Exactly one of QuantityChange and Quantity must be set.
type InventoryAdjustment struct {
	QuantityChange *int   `json:"quantity_change,omitempty" validate:"omitempty,min=-1000000000,max=1000000000"`
	Quantity       *int   `json:"quantity,omitempty" validate:"omitempty,gte=0,max=1000000000"`
	Reason         string `json:"reason" validate:"max=255"`
}

// Delta returns the change to apply given the current quantity
func (a InventoryAdjustment) Delta(current int) int {
	if a.QuantityChange != nil {
		return *a.QuantityChange
	}
	return *a.Quantity - current
}

// InventoryFilter narrows an inventory listing
type InventoryFilter struct {
	CategoryID *uint
	Page
}

// LowStockFilter selects inventory at or below Threshold. A nil threshold
// means the configured default.
type LowStockFilter struct {
	Threshold  *int `validate:"omitempty,gte=0"`
	CategoryID *uint
}
