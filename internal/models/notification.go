package models

import "time"

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationFlaggedItem           NotificationType = "flagged_item"
	NotificationOrderSubmitted        NotificationType = "order_submitted"
	NotificationOrderApproved         NotificationType = "order_approved"
	NotificationOrderChangesRequested NotificationType = "order_changes_requested"
	NotificationOrderReceived         NotificationType = "order_received"
)

// Notification is an in-app message for a single user
type Notification struct {
	ID          uint       `gorm:"primary_key" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Type        string     `gorm:"type:varchar(50);not null" json:"type"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Message     string     `gorm:"type:text" json:"message,omitempty"`
	Link        string     `gorm:"type:varchar(255)" json:"link,omitempty"`
	OrderID     *uint      `json:"order_id,omitempty"`
	OrderItemID *uint      `json:"order_item_id,omitempty"`
	IsRead      bool       `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName sets the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
