package api

import (
	"net/http"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCategories lists the admin-managed product categories. Top-level
// categories come first in sort order, then subcategories.
func (s *Server) ListCategories(c *gin.Context) {
	query := s.db.Where("is_active = ?", true)
	if parent := c.Query("parent"); parent != "" {
		query = query.Where("parent_name = ?", parent)
	}

	var categories []models.ProductCategory
	query.Order("parent_name, sort_order, name").Find(&categories)
	c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a category or subcategory
func (s *Server) CreateCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if category.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Category name is required"})
		return
	}

	var existing models.ProductCategory
	if err := s.db.Where("name = ? AND parent_name = ?", category.Name, category.ParentName).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Category already exists"})
		return
	}

	category.ID = 0
	category.IsActive = true
	if err := s.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category or changes its sort order. Renames
// cascade to inventory items using the old name.
func (s *Server) UpdateCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Category not found"})
		return
	}

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		oldName := category.Name
		category.Name = *req.Name
		if category.ParentName == "" {
			s.db.Model(&models.InventoryItem{}).Where("category = ?", oldName).Update("category", category.Name)
			s.db.Model(&models.ProductCategory{}).Where("parent_name = ?", oldName).Update("parent_name", category.Name)
		} else {
			s.db.Model(&models.InventoryItem{}).Where("subcategory = ?", oldName).Update("subcategory", category.Name)
		}
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := s.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory deactivates a category. Items keep the category text
// and fall back to the "Other" group on the purchase list when the name
// is cleared.
func (s *Server) DeleteCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Category not found"})
		return
	}

	if err := s.db.Model(&category).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
