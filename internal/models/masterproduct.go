package models

import "time"

// MasterProduct is an organization-wide catalog template. It can be
// assigned into one or more properties' local inventories and acts as
// the source of truth when syncing product details.
type MasterProduct struct {
	ID              uint       `gorm:"primary_key" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null;index" json:"name"`
	SKU             string     `gorm:"type:varchar(100);unique_index" json:"sku,omitempty"`
	Category        string     `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Subcategory     string     `gorm:"type:varchar(100)" json:"subcategory,omitempty"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Brand           string     `gorm:"type:varchar(255)" json:"brand,omitempty"`
	Qty             string     `gorm:"type:varchar(50)" json:"qty,omitempty"`
	ProductNotes    string     `gorm:"type:text" json:"product_notes,omitempty"`
	SupplierID      *uint      `json:"supplier_id,omitempty"`
	Unit            string     `gorm:"type:varchar(50);not null;default:'unit'" json:"unit"`
	OrderUnit       string     `gorm:"type:varchar(50)" json:"order_unit,omitempty"`
	UnitsPerOrder   float64    `gorm:"default:1" json:"units_per_order_unit"`
	UnitPrice       *float64   `json:"unit_price,omitempty"`
	DefaultParLevel *float64   `json:"default_par_level,omitempty"`
	DefaultOrderAt  *float64   `json:"default_order_at,omitempty"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `sql:"index" json:"-"`

	Supplier *Supplier `gorm:"foreignkey:SupplierID" json:"supplier,omitempty"`
}

// TableName sets the table name for MasterProduct
func (MasterProduct) TableName() string {
	return "master_products"
}
