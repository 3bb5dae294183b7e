package models

import "time"

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "draft"
	OrderStatusSubmitted         OrderStatus = "submitted"
	OrderStatusUnderReview       OrderStatus = "under_review"
	OrderStatusApproved          OrderStatus = "approved"
	OrderStatusChangesRequested  OrderStatus = "changes_requested"
	OrderStatusOrdered           OrderStatus = "ordered"
	OrderStatusPartiallyReceived OrderStatus = "partially_received"
	OrderStatusReceived          OrderStatus = "received"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

// OrderItemFlag records why an item was added to an order
type OrderItemFlag string

const (
	FlagLowStock       OrderItemFlag = "low_stock"
	FlagTrendSuggested OrderItemFlag = "trend_suggested"
	FlagManual         OrderItemFlag = "manual"
	FlagCustom         OrderItemFlag = "custom"
)

// Order represents a weekly restocking request for a property.
// Created by a camp worker, reviewed and approved by a purchasing
// supervisor, placed and received by the purchasing team.
type Order struct {
	ID             uint       `gorm:"primary_key" json:"id"`
	OrderNumber    string     `gorm:"type:varchar(50);unique_index;not null" json:"order_number"`
	PropertyID     uint       `gorm:"not null;index" json:"property_id"`
	Status         string     `gorm:"type:varchar(50);not null;default:'draft';index" json:"status"`
	WeekOf         *time.Time `json:"week_of,omitempty"`
	CreatedBy      *uint      `json:"created_by,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReviewedBy     *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes    string     `gorm:"type:text" json:"review_notes,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	OrderedAt      *time.Time `json:"ordered_at,omitempty"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	EstimatedTotal float64    `gorm:"default:0" json:"estimated_total"`
	ActualTotal    *float64   `json:"actual_total,omitempty"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `sql:"index" json:"-"`

	Items    []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Property *Property   `gorm:"foreignkey:PropertyID" json:"property,omitempty"`
}

// TableName sets the table name for Order
func (Order) TableName() string {
	return "orders"
}

// CanEdit reports whether items on the order may still be changed by
// its creator. Once submitted, changes go through the review workflow.
func (o *Order) CanEdit() bool {
	return o.Status == string(OrderStatusDraft) || o.Status == string(OrderStatusChangesRequested)
}

// EstimateTotal sums final quantity times unit price over all items
func (o *Order) EstimateTotal() float64 {
	total := 0.0
	for i := range o.Items {
		total += o.Items[i].LineTotal()
	}
	return total
}

// OrderItem is one line of an order. It references an inventory item or
// carries a free-text custom name for one-off purchases.
type OrderItem struct {
	ID               uint       `gorm:"primary_key" json:"id"`
	OrderID          uint       `gorm:"not null;index" json:"order_id"`
	InventoryItemID  *uint      `json:"inventory_item_id,omitempty"`
	CustomItemName   string     `gorm:"type:varchar(255)" json:"custom_item_name,omitempty"`
	CustomItemDesc   string     `gorm:"type:text" json:"custom_item_description,omitempty"`
	SupplierID       *uint      `json:"supplier_id,omitempty"`
	Flag             string     `gorm:"type:varchar(50);default:'manual'" json:"flag"`
	RequestedQty     float64    `gorm:"not null" json:"requested_quantity"`
	ApprovedQty      *float64   `json:"approved_quantity,omitempty"`
	ReceivedQty      *float64   `json:"received_quantity,omitempty"`
	StockCommitted   float64    `gorm:"default:0" json:"-"` // portion of ReceivedQty already added to inventory stock
	Unit             string     `gorm:"type:varchar(50)" json:"unit,omitempty"`
	UnitPrice        *float64   `json:"unit_price,omitempty"`
	CampNotes        string     `gorm:"type:text" json:"camp_notes,omitempty"`
	ReviewerNotes    string     `gorm:"type:text" json:"reviewer_notes,omitempty"`
	ReceivingNotes   string     `gorm:"type:text" json:"receiving_notes,omitempty"`
	IsReceived       bool       `gorm:"default:false" json:"is_received"`
	HasIssue         bool       `gorm:"default:false" json:"has_issue"`
	IssueDescription string     `gorm:"type:text" json:"issue_description,omitempty"`
	IssuePhotoURL    string     `gorm:"type:varchar(500)" json:"issue_photo_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `sql:"index" json:"-"`

	InventoryItem *InventoryItem `gorm:"foreignkey:InventoryItemID" json:"inventory_item,omitempty"`
	Supplier      *Supplier      `gorm:"foreignkey:SupplierID" json:"supplier,omitempty"`
}

// TableName sets the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// DisplayName returns the inventory item name or the custom name
func (i *OrderItem) DisplayName() string {
	if i.InventoryItem != nil && i.InventoryItem.Name != "" {
		return i.InventoryItem.Name
	}
	if i.CustomItemName != "" {
		return i.CustomItemName
	}
	return "Custom Item"
}

// FinalQuantity returns the quantity to order: the approved quantity
// when set, otherwise the requested quantity. Never nil in display logic.
func (i *OrderItem) FinalQuantity() float64 {
	if i.ApprovedQty != nil {
		return *i.ApprovedQty
	}
	return i.RequestedQty
}

// LineTotal is final quantity times unit price, with a missing price
// contributing zero
func (i *OrderItem) LineTotal() float64 {
	if i.UnitPrice == nil {
		return 0
	}
	return i.FinalQuantity() * *i.UnitPrice
}
