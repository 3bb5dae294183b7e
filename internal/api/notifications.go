package api

import (
	"net/http"
	"time"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications lists the current user's notifications, newest first
func (s *Server) ListNotifications(c *gin.Context) {
	user := currentUser(c)

	query := s.db.Where("user_id = ?", user.ID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	query.Order("created_at desc").Limit(100).Find(&notifications)
	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the user's unread notification count
func (s *Server) GetUnreadCount(c *gin.Context) {
	user := currentUser(c)

	var count int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count)
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkReadRequest names the notifications to mark read
type MarkReadRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// MarkNotificationsRead marks the given notifications as read
func (s *Server) MarkNotificationsRead(c *gin.Context) {
	user := currentUser(c)

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	now := time.Now().UTC()
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN (?)", user.ID, req.IDs).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	s.pushUnreadCount(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Marked read"})
}

// MarkAllNotificationsRead marks every unread notification as read
func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	user := currentUser(c)

	now := time.Now().UTC()
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	s.pushUnreadCount(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "All marked read"})
}

// DeleteNotification removes one of the user's notifications
func (s *Server) DeleteNotification(c *gin.Context) {
	user := currentUser(c)

	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", paramID(c, "id"), user.ID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Notification not found"})
		return
	}

	if err := s.db.Delete(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.pushUnreadCount(user.ID)
	c.Status(http.StatusNoContent)
}

// NotificationSocket upgrades to a websocket that pushes unread-count
// updates as notifications arrive
func (s *Server) NotificationSocket(c *gin.Context) {
	user := currentUser(c)
	s.hub.Serve(c.Writer, c.Request, user.ID)
}

// pushUnreadCount recomputes and pushes the unread count over the hub
func (s *Server) pushUnreadCount(userID uint) {
	var count int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	s.hub.SendUnreadCount(userID, count)
}
