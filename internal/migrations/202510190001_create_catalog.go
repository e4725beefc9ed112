package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalogCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;size:100;uniqueIndex"`
	Description string `gorm:"type:text"`
}

func (catalogCategory) TableName() string { return "categories" }

type catalogProduct struct {
	ID          uint             `gorm:"primaryKey"`
	Name        string           `gorm:"not null;size:255;index"`
	Description string           `gorm:"type:text"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	CategoryID  *uint            `gorm:"index"`
	Category    *catalogCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	SKU         string           `gorm:"column:sku;not null;size:50;uniqueIndex"`
	ImageURL    string           `gorm:"column:image_url;size:255"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

func (catalogProduct) TableName() string { return "products" }

type catalogInventory struct {
	ID          uint            `gorm:"primaryKey"`
	ProductID   uint            `gorm:"not null;uniqueIndex"`
	Product     *catalogProduct `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Quantity    int             `gorm:"not null;default:0"`
	LastUpdated time.Time       `gorm:"not null"`
}

func (catalogInventory) TableName() string { return "inventory" }

type catalogInventoryHistory struct {
	ID               uint              `gorm:"primaryKey"`
	InventoryID      uint              `gorm:"not null;index"`
	Inventory        *catalogInventory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	QuantityChange   int               `gorm:"not null"`
	PreviousQuantity int               `gorm:"not null"`
	NewQuantity      int               `gorm:"not null"`
	Reason           string            `gorm:"size:255"`
	Timestamp        time.Time         `gorm:"not null;index"`
}

func (catalogInventoryHistory) TableName() string { return "inventory_history" }

// CreateCatalog creates categories, products, inventory and inventory_history
type CreateCatalog struct{}

func (m CreateCatalog) Version() string { return "202510190001" }

func (m CreateCatalog) Name() string { return "create_catalog" }

func (m CreateCatalog) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogCategory{},
		&catalogProduct{},
		&catalogInventory{},
		&catalogInventoryHistory{},
	)
}

func (m CreateCatalog) Down(db *gorm.DB) error {
	// children first
	for _, table := range []string{"inventory_history", "inventory", "products", "categories"} {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	register(CreateCatalog{})
}
