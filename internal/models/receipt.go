package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ReceiptLineItem is one extracted line from a receipt. Matched lines
// reference an order item; unmatched lines are candidates for new
// catalog entries.
type ReceiptLineItem struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	Total       float64  `json:"total"`
	OrderItemID *uint    `json:"order_item_id,omitempty"`
	Matched     bool     `json:"matched"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// ReceiptLineItems stores extracted lines as a JSON column
type ReceiptLineItems []ReceiptLineItem

// Value converts the slice to JSON for storage
func (l ReceiptLineItems) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan converts the database value back to a slice
func (l *ReceiptLineItems) Scan(value interface{}) error {
	if value == nil {
		*l = ReceiptLineItems{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for ReceiptLineItems")
	}
}

// Receipt is an uploaded purchase receipt tied to an order. Line items
// are extracted by an external processing service; verification is a
// separate manual step.
type Receipt struct {
	ID                 uint             `gorm:"primary_key" json:"id"`
	OrderID            *uint            `gorm:"index" json:"order_id,omitempty"`
	SupplierID         *uint            `gorm:"index" json:"supplier_id,omitempty"`
	ImageURL           string           `gorm:"type:varchar(500);not null" json:"image_url"`
	ReceiptDate        *time.Time       `json:"receipt_date,omitempty"`
	ReceiptNumber      string           `gorm:"type:varchar(100)" json:"receipt_number,omitempty"`
	Subtotal           *float64         `json:"subtotal,omitempty"`
	Tax                *float64         `json:"tax,omitempty"`
	Total              *float64         `json:"total,omitempty"`
	LineItems          ReceiptLineItems `gorm:"type:text" json:"line_items"`
	IsProcessed        bool             `gorm:"default:false" json:"is_processed"`
	ProcessingError    string           `gorm:"type:text" json:"processing_error,omitempty"`
	IsManuallyVerified bool             `gorm:"default:false" json:"is_manually_verified"`
	VerifiedBy         *uint            `json:"verified_by,omitempty"`
	VerifiedAt         *time.Time       `json:"verified_at,omitempty"`
	UploadedBy         uint             `gorm:"not null" json:"uploaded_by"`
	Notes              string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          *time.Time       `sql:"index" json:"-"`

	Order    *Order    `gorm:"foreignkey:OrderID" json:"order,omitempty"`
	Supplier *Supplier `gorm:"foreignkey:SupplierID" json:"supplier,omitempty"`
}

// TableName sets the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}
