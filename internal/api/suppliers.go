package api

import (
	"net/http"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListSuppliers lists shared suppliers, active only unless asked otherwise
func (s *Server) ListSuppliers(c *gin.Context) {
	query := s.db.Order("name")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var suppliers []models.Supplier
	query.Find(&suppliers)
	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier returns one supplier
func (s *Server) GetSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Supplier not found"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// CreateSupplier adds a supplier shared across all properties
func (s *Server) CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if supplier.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Supplier name is required"})
		return
	}

	var existing models.Supplier
	if err := s.db.Where("name = ?", supplier.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "A supplier with that name already exists"})
		return
	}

	supplier.ID = 0
	supplier.IsActive = true
	if err := s.db.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier updates supplier contact details
func (s *Server) UpdateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Supplier not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	delete(updates, "id")
	delete(updates, "created_at")

	if err := s.db.Model(&supplier).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.db.Where("id = ?", supplier.ID).First(&supplier)
	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier deactivates a supplier. Existing inventory items and
// order lines keep their references.
func (s *Server) DeleteSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Supplier not found"})
		return
	}

	if err := s.db.Model(&supplier).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
