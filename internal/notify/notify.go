// Package notify creates in-app notifications and streams unread-count
// updates to connected clients over WebSocket.
package notify

import (
	"fmt"

	"campstock/internal/models"

	"github.com/jinzhu/gorm"
)

// FlaggedItem describes an order item flagged with an issue during receiving
type FlaggedItem struct {
	ItemName         string
	IssueDescription string
	OrderItemID      uint
}

// Notifier writes notifications and pushes live updates through the hub
type Notifier struct {
	db  *gorm.DB
	hub *Hub
}

// NewNotifier creates a notifier backed by the given database and hub
func NewNotifier(db *gorm.DB, hub *Hub) *Notifier {
	return &Notifier{db: db, hub: hub}
}

// create persists a notification and pushes the user's new unread count
func (n *Notifier) create(notification *models.Notification) error {
	if err := n.db.Create(notification).Error; err != nil {
		return err
	}
	n.pushUnreadCount(notification.UserID)
	return nil
}

// pushUnreadCount sends the user's current unread count to their
// connected clients
func (n *Notifier) pushUnreadCount(userID uint) {
	if n.hub == nil {
		return
	}
	var count int64
	n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	n.hub.SendUnreadCount(userID, count)
}

// NotifyRoles creates one notification per active user holding any of
// the given roles
func (n *Notifier) NotifyRoles(roles []string, notification models.Notification) error {
	var users []models.User
	if err := n.db.Where("is_active = ? AND role IN (?)", true, roles).Find(&users).Error; err != nil {
		return err
	}
	for _, user := range users {
		note := notification
		note.UserID = user.ID
		if err := n.create(&note); err != nil {
			return err
		}
	}
	return nil
}

// NotifyUser creates a notification for a single user
func (n *Notifier) NotifyUser(userID uint, notification models.Notification) error {
	notification.UserID = userID
	return n.create(&notification)
}

// OrderSubmitted notifies supervisors that an order is awaiting review
func (n *Notifier) OrderSubmitted(order *models.Order, propertyName, submittedBy string) error {
	return n.NotifyRoles(
		[]string{string(models.RolePurchasingSupervisor)},
		models.Notification{
			Type:    string(models.NotificationOrderSubmitted),
			Title:   fmt.Sprintf("Order %s submitted", order.OrderNumber),
			Message: fmt.Sprintf("%s submitted order %s for %s", submittedBy, order.OrderNumber, propertyName),
			Link:    fmt.Sprintf("/orders/%d", order.ID),
			OrderID: &order.ID,
		},
	)
}

// OrderReviewed notifies the order's creator of a review outcome
func (n *Notifier) OrderReviewed(order *models.Order, approved bool, reviewedBy, notes string) error {
	if order.CreatedBy == nil {
		return nil
	}

	note := models.Notification{
		Link:    fmt.Sprintf("/orders/%d", order.ID),
		OrderID: &order.ID,
	}
	if approved {
		note.Type = string(models.NotificationOrderApproved)
		note.Title = fmt.Sprintf("Order %s approved", order.OrderNumber)
		note.Message = fmt.Sprintf("%s approved your order", reviewedBy)
	} else {
		note.Type = string(models.NotificationOrderChangesRequested)
		note.Title = fmt.Sprintf("Changes requested on order %s", order.OrderNumber)
		note.Message = notes
	}

	return n.NotifyUser(*order.CreatedBy, note)
}

// FlaggedItems notifies the purchasing team about receiving issues
func (n *Notifier) FlaggedItems(order *models.Order, propertyName, flaggedBy string, items []FlaggedItem) error {
	for _, item := range items {
		itemID := item.OrderItemID
		err := n.NotifyRoles(
			[]string{string(models.RolePurchasingSupervisor), string(models.RolePurchasingTeam)},
			models.Notification{
				Type:        string(models.NotificationFlaggedItem),
				Title:       fmt.Sprintf("%s flagged %s", propertyName, item.ItemName),
				Message:     fmt.Sprintf("%s: %s", flaggedBy, item.IssueDescription),
				Link:        fmt.Sprintf("/orders/%d", order.ID),
				OrderID:     &order.ID,
				OrderItemID: &itemID,
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
