package api

import (
	"net/http"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListProperties lists the camps the current user may see. Camp workers
// only see their own property.
func (s *Server) ListProperties(c *gin.Context) {
	user := currentUser(c)

	query := s.db.Where("is_active = ?", true).Order("name")
	if user.Role == string(models.RoleCampWorker) {
		if user.PropertyID == nil {
			c.JSON(http.StatusOK, []models.Property{})
			return
		}
		query = query.Where("id = ?", *user.PropertyID)
	}

	var properties []models.Property
	query.Find(&properties)
	c.JSON(http.StatusOK, properties)
}

// GetProperty returns one property
func (s *Server) GetProperty(c *gin.Context) {
	id := paramID(c, "id")
	if !s.requirePropertyAccess(c, id) {
		return
	}

	var property models.Property
	if err := s.db.Where("id = ?", id).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// CreateProperty adds a camp/property
func (s *Server) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if property.Name == "" || property.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name and code are required"})
		return
	}

	var existing models.Property
	if err := s.db.Where("code = ?", property.Code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "A property with that code already exists"})
		return
	}

	property.ID = 0
	property.IsActive = true
	if err := s.db.Create(&property).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty updates property details
func (s *Server) UpdateProperty(c *gin.Context) {
	var property models.Property
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Property not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	delete(updates, "id")
	delete(updates, "created_at")

	if err := s.db.Model(&property).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.db.Where("id = ?", property.ID).First(&property)
	c.JSON(http.StatusOK, property)
}

// DeleteProperty deactivates a property. Its orders and inventory stay
// in place for reporting.
func (s *Server) DeleteProperty(c *gin.Context) {
	var property models.Property
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Property not found"})
		return
	}

	if err := s.db.Model(&property).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
