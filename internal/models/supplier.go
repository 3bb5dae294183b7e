package models

import "time"

// Supplier represents a vendor shared across all properties
type Supplier struct {
	ID            uint       `gorm:"primary_key" json:"id"`
	Name          string     `gorm:"type:varchar(255);unique_index;not null" json:"name"`
	ContactName   string     `gorm:"type:varchar(255)" json:"contact_name,omitempty"`
	Email         string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone         string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address       string     `gorm:"type:text" json:"address,omitempty"`
	Website       string     `gorm:"type:varchar(255)" json:"website,omitempty"`
	AccountNumber string     `gorm:"type:varchar(100)" json:"account_number,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `sql:"index" json:"-"`
}

// TableName sets the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// ProductCategory represents an admin-managed category or subcategory.
// ParentName is empty for top-level categories and holds the parent
// category name for subcategories.
type ProductCategory struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	ParentName string    `gorm:"type:varchar(100);index" json:"parent_name,omitempty"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for ProductCategory
func (ProductCategory) TableName() string {
	return "product_categories"
}
