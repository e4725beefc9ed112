package migrations

import (
	"time"

	"gorm.io/gorm"
)

// revenue queries filter on status and a sale_date range together
type salesStatusDate struct {
	Status   string    `gorm:"index:idx_sales_status_sale_date,priority:1"`
	SaleDate time.Time `gorm:"index:idx_sales_status_sale_date,priority:2"`
}

func (salesStatusDate) TableName() string { return "sales" }

// AddIndexIdxSalesStatusSaleDate indexes sales by status and sale_date for revenue queries
type AddIndexIdxSalesStatusSaleDate struct{}

func (m AddIndexIdxSalesStatusSaleDate) Version() string { return "202510190003" }

func (m AddIndexIdxSalesStatusSaleDate) Name() string { return "add_index_idx_sales_status_sale_date" }

func (m AddIndexIdxSalesStatusSaleDate) Up(db *gorm.DB) error {
	if db.Migrator().HasIndex(&salesStatusDate{}, "idx_sales_status_sale_date") {
		return nil
	}
	return db.Migrator().CreateIndex(&salesStatusDate{}, "idx_sales_status_sale_date")
}

func (m AddIndexIdxSalesStatusSaleDate) Down(db *gorm.DB) error {
	if !db.Migrator().HasIndex(&salesStatusDate{}, "idx_sales_status_sale_date") {
		return nil
	}
	return db.Migrator().DropIndex(&salesStatusDate{}, "idx_sales_status_sale_date")
}

func init() {
	register(AddIndexIdxSalesStatusSaleDate{})
}
