package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListInventoryItems lists a property's inventory, optionally filtered
// by category or low-stock status
func (s *Server) ListInventoryItems(c *gin.Context) {
	user := currentUser(c)

	var propertyID uint
	if v := c.Query("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid property_id"})
			return
		}
		propertyID = uint(id)
	} else if user.PropertyID != nil {
		propertyID = *user.PropertyID
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "property_id is required"})
		return
	}
	if !s.requirePropertyAccess(c, propertyID) {
		return
	}

	query := s.db.Preload("Supplier").Preload("MasterProduct").
		Where("property_id = ? AND is_active = ?", propertyID, true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var items []models.InventoryItem
	query.Order("sort_order, name").Find(&items)

	if c.Query("low_stock") == "true" {
		low := items[:0]
		for i := range items {
			if items[i].IsLowStock() {
				low = append(low, items[i])
			}
		}
		items = low
	}

	c.JSON(http.StatusOK, items)
}

// GetInventoryItem returns one inventory item
func (s *Server) GetInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := s.db.Preload("Supplier").Preload("MasterProduct").
		Where("id = ?", paramID(c, "id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory item not found"})
		return
	}
	if !s.requirePropertyAccess(c, item.PropertyID) {
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateInventoryItem adds an item to a property's inventory
func (s *Server) CreateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if item.PropertyID == 0 || item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "property_id and name are required"})
		return
	}
	if !s.requirePropertyAccess(c, item.PropertyID) {
		return
	}

	item.ID = 0
	item.IsActive = true
	if item.Unit == "" {
		item.Unit = "unit"
	}
	if item.UnitsPerOrder <= 0 {
		item.UnitsPerOrder = 1
	}
	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem updates an inventory item in place
func (s *Server) UpdateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory item not found"})
		return
	}
	if !s.requirePropertyAccess(c, item.PropertyID) {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	// Identity and linkage fields are managed elsewhere
	delete(updates, "id")
	delete(updates, "property_id")
	delete(updates, "master_product_id")
	delete(updates, "created_at")

	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.db.Preload("Supplier").Where("id = ?", item.ID).First(&item)
	c.JSON(http.StatusOK, item)
}

// DeleteInventoryItem soft-deactivates an inventory item so past orders
// keep their references
func (s *Server) DeleteInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory item not found"})
		return
	}
	if !s.requirePropertyAccess(c, item.PropertyID) {
		return
	}

	if err := s.db.Model(&item).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListItemCategories returns the distinct categories in use for a property
func (s *Server) ListItemCategories(c *gin.Context) {
	query := s.db.Model(&models.InventoryItem{}).Where("is_active = ?", true)
	if v := c.Query("property_id"); v != "" {
		query = query.Where("property_id = ?", v)
	}

	var categories []string
	rows, err := query.Select("DISTINCT category").Where("category <> ''").Order("category").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err == nil {
			categories = append(categories, category)
		}
	}
	c.JSON(http.StatusOK, categories)
}

// ============== INVENTORY COUNTS ==============

// ListInventoryCounts lists count sessions for a property
func (s *Server) ListInventoryCounts(c *gin.Context) {
	user := currentUser(c)

	query := s.db.Preload("Items").Preload("Items.InventoryItem")
	if v := c.Query("property_id"); v != "" {
		var propertyID uint
		fmt.Sscanf(v, "%d", &propertyID)
		if !s.requirePropertyAccess(c, propertyID) {
			return
		}
		query = query.Where("property_id = ?", propertyID)
	} else if user.Role == string(models.RoleCampWorker) && user.PropertyID != nil {
		query = query.Where("property_id = ?", *user.PropertyID)
	}

	var counts []models.InventoryCount
	query.Order("count_date desc").Find(&counts)
	c.JSON(http.StatusOK, counts)
}

// CountItemRequest is one line in a count session
type CountItemRequest struct {
	InventoryItemID uint    `json:"inventory_item_id" binding:"required"`
	Quantity        float64 `json:"quantity"`
	Notes           string  `json:"notes"`
}

// CreateCountRequest starts a count session with its recorded quantities
type CreateCountRequest struct {
	PropertyID uint               `json:"property_id" binding:"required"`
	CountDate  *time.Time         `json:"count_date"`
	Notes      string             `json:"notes"`
	Items      []CountItemRequest `json:"items"`
}

// CreateInventoryCount records a stock-count session. The session does
// not touch live stock until it is finalized.
func (s *Server) CreateInventoryCount(c *gin.Context) {
	var req CreateCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !s.requirePropertyAccess(c, req.PropertyID) {
		return
	}

	user := currentUser(c)
	countDate := time.Now().UTC()
	if req.CountDate != nil {
		countDate = *req.CountDate
	}

	count := models.InventoryCount{
		PropertyID: req.PropertyID,
		CountDate:  countDate,
		CountedBy:  &user.ID,
		Notes:      req.Notes,
	}
	if err := s.db.Create(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	for _, line := range req.Items {
		item := models.InventoryCountItem{
			InventoryCountID: count.ID,
			InventoryItemID:  line.InventoryItemID,
			Quantity:         line.Quantity,
			Notes:            line.Notes,
		}
		if err := s.db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		count.Items = append(count.Items, item)
	}

	c.JSON(http.StatusCreated, count)
}

// GetInventoryCount returns one count session with its lines
func (s *Server) GetInventoryCount(c *gin.Context) {
	var count models.InventoryCount
	if err := s.db.Preload("Items").Preload("Items.InventoryItem").
		Where("id = ?", paramID(c, "id")).First(&count).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory count not found"})
		return
	}
	if !s.requirePropertyAccess(c, count.PropertyID) {
		return
	}
	c.JSON(http.StatusOK, count)
}

// FinalizeInventoryCount applies the counted quantities to live stock
// levels and locks the session
func (s *Server) FinalizeInventoryCount(c *gin.Context) {
	var count models.InventoryCount
	if err := s.db.Preload("Items").Where("id = ?", paramID(c, "id")).First(&count).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory count not found"})
		return
	}
	if !s.requirePropertyAccess(c, count.PropertyID) {
		return
	}
	if count.IsFinalized {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Count is already finalized"})
		return
	}

	for _, line := range count.Items {
		if err := s.db.Model(&models.InventoryItem{}).
			Where("id = ?", line.InventoryItemID).
			Update("current_stock", line.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
	}

	if err := s.db.Model(&count).Update("is_finalized", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	count.IsFinalized = true
	c.JSON(http.StatusOK, count)
}

// ExportInventoryCSV streams a property's inventory as a CSV download
func (s *Server) ExportInventoryCSV(c *gin.Context) {
	propertyID := paramID(c, "propertyId")
	if !s.requirePropertyAccess(c, propertyID) {
		return
	}

	var property models.Property
	if err := s.db.Where("id = ?", propertyID).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Property not found"})
		return
	}

	var items []models.InventoryItem
	s.db.Preload("Supplier").
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("category, name").
		Find(&items)

	filename := fmt.Sprintf("inventory_%s_%s.csv", property.Code, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Name", "Category", "Supplier", "Unit", "Order Unit", "Units Per Order", "Unit Price", "Par Level", "Order At", "Current Stock"})
	for i := range items {
		item := &items[i]
		supplier := ""
		if item.Supplier != nil {
			supplier = item.Supplier.Name
		}
		w.Write([]string{
			item.Name,
			item.Category,
			supplier,
			item.Unit,
			item.OrderUnit,
			strconv.FormatFloat(item.UnitsPerOrder, 'f', -1, 64),
			floatPtrString(item.UnitPrice),
			floatPtrString(item.ParLevel),
			floatPtrString(item.OrderAt),
			strconv.FormatFloat(item.CurrentStock, 'f', -1, 64),
		})
	}
	w.Flush()
}

func floatPtrString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
