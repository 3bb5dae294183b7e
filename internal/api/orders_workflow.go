package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campstock/internal/models"
	"campstock/internal/notify"
	"campstock/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// applyTransition persists an order after a workflow transition and
// records the action metric.
func (s *Server) applyTransition(c *gin.Context, order *models.Order, action workflow.Action) bool {
	if err := s.db.Set("gorm:save_associations", false).Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return false
	}
	s.monitor.RecordTransition(string(action))
	return true
}

// SubmitOrder submits a draft order for review
func (s *Server) SubmitOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}

	if err := workflow.Submit(order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	now := time.Now().UTC()
	order.SubmittedAt = &now

	if !s.applyTransition(c, order, workflow.ActionSubmit) {
		return
	}

	user := currentUser(c)
	propertyName := ""
	if order.Property != nil {
		propertyName = order.Property.Name
	}
	if s.notifier != nil {
		s.notifier.OrderSubmitted(order, propertyName, user.DisplayName())
	}

	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// ResubmitOrder sends a changes-requested order back to review with a
// clean review slate
func (s *Server) ResubmitOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}

	if err := workflow.Resubmit(order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	now := time.Now().UTC()
	order.SubmittedAt = &now

	// Persist the cleared per-item review state
	for i := range order.Items {
		item := &order.Items[i]
		if err := s.db.Model(item).Updates(map[string]interface{}{
			"approved_qty":   nil,
			"reviewer_notes": "",
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
	}

	if !s.applyTransition(c, order, workflow.ActionResubmit) {
		return
	}

	user := currentUser(c)
	propertyName := ""
	if order.Property != nil {
		propertyName = order.Property.Name
	}
	if s.notifier != nil {
		s.notifier.OrderSubmitted(order, propertyName, user.DisplayName())
	}

	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// ReviewRequest carries the reviewer's decision
type ReviewRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

// ReviewOrder applies a supervisor's review decision: approve,
// request_changes or reject
func (s *Server) ReviewOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	now := time.Now().UTC()

	var action workflow.Action
	switch req.Action {
	case "approve":
		action = workflow.ActionApprove
		if err := workflow.Approve(order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		order.ApprovedAt = &now
		// Persist the frozen approved quantities
		for i := range order.Items {
			item := &order.Items[i]
			if err := s.db.Model(item).Update("approved_qty", item.ApprovedQty).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
		}
	case "request_changes":
		action = workflow.ActionRequestChanges
		if err := workflow.RequestChanges(order, req.Notes); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	case "reject":
		action = workflow.ActionReject
		next, err := workflow.Transition(models.OrderStatus(order.Status), workflow.ActionReject)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		order.Status = string(next)
		order.ReviewNotes = req.Notes
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Unknown review action %q", req.Action)})
		return
	}

	order.ReviewedBy = &user.ID
	order.ReviewedAt = &now
	order.EstimatedTotal = order.EstimateTotal()

	if !s.applyTransition(c, order, action) {
		return
	}

	if s.notifier != nil {
		s.notifier.OrderReviewed(order, req.Action == "approve", user.DisplayName(), req.Notes)
	}

	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// MarkOrdered marks an approved order as placed with suppliers
func (s *Server) MarkOrdered(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}

	next, err := workflow.Transition(models.OrderStatus(order.Status), workflow.ActionMarkOrdered)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	now := time.Now().UTC()
	order.Status = string(next)
	order.OrderedAt = &now

	if !s.applyTransition(c, order, workflow.ActionMarkOrdered) {
		return
	}
	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// UnmarkOrdered reverts an ordered order back to approved, refused once
// receiving has started
func (s *Server) UnmarkOrdered(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}

	if err := workflow.UnmarkOrdered(order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !s.applyTransition(c, order, workflow.ActionUnmarkOrdered) {
		return
	}
	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// WithdrawOrder cancels an order before it has been placed
func (s *Server) WithdrawOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}

	next, err := workflow.Transition(models.OrderStatus(order.Status), workflow.ActionWithdraw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	order.Status = string(next)

	if !s.applyTransition(c, order, workflow.ActionWithdraw) {
		return
	}
	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// ============== RECEIVING ==============

// ReceiveItemRequest records quantities for one line during receiving
type ReceiveItemRequest struct {
	OrderItemID      uint     `json:"order_item_id" binding:"required"`
	ReceivedQty      *float64 `json:"received_quantity"`
	ReceivingNotes   string   `json:"receiving_notes"`
	HasIssue         bool     `json:"has_issue"`
	IssueDescription string   `json:"issue_description"`
}

// ReceiveRequest carries a receiving session. Quantities accumulate
// across sessions; stock moves and status changes happen only when the
// session is finalized.
type ReceiveRequest struct {
	Items    []ReceiveItemRequest `json:"items"`
	Finalize bool                 `json:"finalize"`
}

// ReceiveOrder records received quantities against an ordered or
// partially received order. A non-final session just stores the
// quantities and issue flags. Finalizing commits the not-yet-committed
// portion of each received quantity into inventory stock and moves the
// order to received or partially_received.
func (s *Server) ReceiveOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	if !workflow.CanReceive(models.OrderStatus(order.Status)) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Cannot receive order with status %q", order.Status)})
		return
	}

	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	byID := make(map[uint]*models.OrderItem, len(order.Items))
	for i := range order.Items {
		byID[order.Items[i].ID] = &order.Items[i]
	}

	var flagged []notify.FlaggedItem
	for _, update := range req.Items {
		item, found := byID[update.OrderItemID]
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Order item %d does not belong to this order", update.OrderItemID)})
			return
		}
		if update.ReceivedQty != nil {
			item.ReceivedQty = update.ReceivedQty
		}
		if update.ReceivingNotes != "" {
			item.ReceivingNotes = update.ReceivingNotes
		}
		item.HasIssue = update.HasIssue
		if update.HasIssue {
			item.IssueDescription = update.IssueDescription
			flagged = append(flagged, notify.FlaggedItem{
				ItemName:         item.DisplayName(),
				IssueDescription: update.IssueDescription,
				OrderItemID:      item.ID,
			})
		}
	}

	if req.Finalize {
		now := time.Now().UTC()
		for i := range order.Items {
			item := &order.Items[i]
			if item.ReceivedQty == nil {
				continue
			}
			// Commit only the part of the received quantity that has
			// not been added to stock by an earlier finalize.
			delta := *item.ReceivedQty - item.StockCommitted
			committed := true
			if delta != 0 && item.InventoryItemID != nil {
				var inv models.InventoryItem
				err := s.db.Where("id = ?", *item.InventoryItemID).First(&inv).Error
				switch {
				case err == nil:
					if err := s.db.Model(&inv).Update("current_stock", inv.CurrentStock+delta).Error; err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
						return
					}
				case gorm.IsRecordNotFoundError(err):
					// The linked inventory row is gone; nothing to
					// stock, so leave the committed amount untouched.
					committed = false
				default:
					c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
					return
				}
			}
			if committed {
				item.StockCommitted = *item.ReceivedQty
			}
			item.IsReceived = *item.ReceivedQty >= item.FinalQuantity()
		}

		order.Status = string(workflow.ReceiveStatus(order))
		if order.Status == string(models.OrderStatusReceived) {
			order.ReceivedAt = &now
		}
		s.monitor.RecordTransition("receive")
	}

	// Save with association cascades off: the preloaded InventoryItem
	// structs carry pre-finalize stock and must not be written back.
	plain := s.db.Set("gorm:save_associations", false)
	for i := range order.Items {
		if err := plain.Save(&order.Items[i]).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
	}
	if err := plain.Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if len(flagged) > 0 && s.notifier != nil {
		user := currentUser(c)
		propertyName := ""
		if order.Property != nil {
			propertyName = order.Property.Name
		}
		s.notifier.FlaggedItems(order, propertyName, user.DisplayName(), flagged)
	}

	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// UploadIssuePhoto attaches a photo to a flagged order item
func (s *Server) UploadIssuePhoto(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}

	var item models.OrderItem
	if err := s.db.Where("id = ? AND order_id = ?", paramID(c, "itemId"), order.ID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order item not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Unsupported image type %q", ext)})
		return
	}

	dir := filepath.Join(s.uploadDir, "issues")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	item.IssuePhotoURL = "/uploads/issues/" + name
	if err := s.db.Model(&item).Update("issue_photo_url", item.IssuePhotoURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue_photo_url": item.IssuePhotoURL})
}
