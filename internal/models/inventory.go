package models

import (
	"math"
	"time"
)

// InventoryItem represents a property-specific stock record.
// Each property keeps its own list with par levels, reorder thresholds
// and supplier assignments.
type InventoryItem struct {
	ID              uint       `gorm:"primary_key" json:"id"`
	PropertyID      uint       `gorm:"not null;index" json:"property_id"`
	MasterProductID *uint      `gorm:"index" json:"master_product_id,omitempty"`
	Name            string     `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Category        string     `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Subcategory     string     `gorm:"type:varchar(100)" json:"subcategory,omitempty"`
	Brand           string     `gorm:"type:varchar(255)" json:"brand,omitempty"`
	Qty             string     `gorm:"type:varchar(50)" json:"qty,omitempty"`
	ProductNotes    string     `gorm:"type:text" json:"product_notes,omitempty"`
	SupplierID      *uint      `json:"supplier_id,omitempty"`
	Unit            string     `gorm:"type:varchar(50);not null;default:'unit'" json:"unit"`
	OrderUnit       string     `gorm:"type:varchar(50)" json:"order_unit,omitempty"`
	UnitsPerOrder   float64    `gorm:"default:1" json:"units_per_order_unit"`
	UnitPrice       *float64   `json:"unit_price,omitempty"`
	ParLevel        *float64   `json:"par_level,omitempty"`
	OrderAt         *float64   `json:"order_at,omitempty"`
	CurrentStock    float64    `gorm:"default:0" json:"current_stock"`
	AvgWeeklyUsage  *float64   `json:"avg_weekly_usage,omitempty"`
	SortOrder       int        `gorm:"default:0" json:"sort_order"`
	IsRecurring     bool       `gorm:"default:true" json:"is_recurring"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `sql:"index" json:"-"`

	Supplier      *Supplier      `gorm:"foreignkey:SupplierID" json:"supplier,omitempty"`
	MasterProduct *MasterProduct `gorm:"foreignkey:MasterProductID" json:"master_product,omitempty"`
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// reorderThreshold returns the order-at threshold, falling back to par level
func (i *InventoryItem) reorderThreshold() *float64 {
	if i.OrderAt != nil {
		return i.OrderAt
	}
	return i.ParLevel
}

// IsLowStock reports whether the item is at or below its reorder threshold
func (i *InventoryItem) IsLowStock() bool {
	threshold := i.reorderThreshold()
	if threshold == nil {
		return false
	}
	return i.CurrentStock <= *threshold
}

// SuggestedOrderQty suggests an order quantity in order units. It only
// suggests ordering when stock is at or below the reorder threshold, and
// orders enough to bring stock back up to par, rounded up to whole order
// units.
func (i *InventoryItem) SuggestedOrderQty() float64 {
	threshold := i.reorderThreshold()
	if threshold == nil || i.CurrentStock > *threshold {
		return 0
	}

	var needed float64
	switch {
	case i.AvgWeeklyUsage != nil && i.ParLevel != nil:
		needed = *i.ParLevel - i.CurrentStock + *i.AvgWeeklyUsage
	case i.ParLevel != nil:
		needed = *i.ParLevel - i.CurrentStock
	default:
		return 0
	}

	if needed <= 0 {
		return 0
	}

	perOrder := i.UnitsPerOrder
	if perOrder <= 0 {
		perOrder = 1
	}
	return math.Ceil(needed / perOrder)
}

// EffectiveOrderUnit returns the unit used for ordering, falling back to
// the counting unit when no order unit is configured
func (i *InventoryItem) EffectiveOrderUnit() string {
	if i.OrderUnit != "" {
		return i.OrderUnit
	}
	return i.Unit
}

// InventoryCount represents a stock-count session for a property
type InventoryCount struct {
	ID          uint       `gorm:"primary_key" json:"id"`
	PropertyID  uint       `gorm:"not null;index" json:"property_id"`
	CountDate   time.Time  `json:"count_date"`
	CountedBy   *uint      `json:"counted_by,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	IsFinalized bool       `gorm:"default:false" json:"is_finalized"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `sql:"index" json:"-"`

	Items []InventoryCountItem `gorm:"foreignkey:InventoryCountID" json:"items,omitempty"`
}

// TableName sets the table name for InventoryCount
func (InventoryCount) TableName() string {
	return "inventory_counts"
}

// InventoryCountItem is a single item quantity recorded during a count session
type InventoryCountItem struct {
	ID               uint      `gorm:"primary_key" json:"id"`
	InventoryCountID uint      `gorm:"not null;index" json:"inventory_count_id"`
	InventoryItemID  uint      `gorm:"not null;index" json:"inventory_item_id"`
	Quantity         float64   `gorm:"not null" json:"quantity"`
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	InventoryItem *InventoryItem `gorm:"foreignkey:InventoryItemID" json:"inventory_item,omitempty"`
}

// TableName sets the table name for InventoryCountItem
func (InventoryCountItem) TableName() string {
	return "inventory_count_items"
}
