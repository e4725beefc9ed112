package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type salesCustomer struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;size:255"`
	Email     string    `gorm:"not null;size:255;uniqueIndex"`
	Phone     string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"not null"`
}

func (salesCustomer) TableName() string { return "customers" }

type salesSale struct {
	ID            uint            `gorm:"primaryKey"`
	CustomerID    *uint           `gorm:"index"`
	Customer      *salesCustomer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleDate      time.Time       `gorm:"not null;index"`
	PaymentMethod string          `gorm:"size:50"`
	Status        string          `gorm:"not null;size:20;default:completed;index"`
}

func (salesSale) TableName() string { return "sales" }

type salesSaleItem struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"not null;index"`
	Sale      *salesSale      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ProductID uint            `gorm:"not null;index"`
	Product   *catalogProduct `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (salesSaleItem) TableName() string { return "sale_items" }

// CreateSales creates customers, sales and sale_items
type CreateSales struct{}

func (m CreateSales) Version() string { return "202510190002" }

func (m CreateSales) Name() string { return "create_sales" }

func (m CreateSales) Up(db *gorm.DB) error {
	return db.AutoMigrate(&salesCustomer{}, &salesSale{}, &salesSaleItem{})
}

func (m CreateSales) Down(db *gorm.DB) error {
	for _, table := range []string{"sale_items", "sales", "customers"} {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	register(CreateSales{})
}
