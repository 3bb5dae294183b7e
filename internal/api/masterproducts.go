package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// ListMasterProducts lists the organization-wide catalog
func (s *Server) ListMasterProducts(c *gin.Context) {
	query := s.db.Preload("Supplier").Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR sku LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var products []models.MasterProduct
	query.Order("category, name").Find(&products)
	c.JSON(http.StatusOK, products)
}

// GetMasterProduct returns one catalog entry
func (s *Server) GetMasterProduct(c *gin.Context) {
	var product models.MasterProduct
	if err := s.db.Preload("Supplier").Where("id = ?", paramID(c, "id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Master product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateMasterProduct adds a catalog entry
func (s *Server) CreateMasterProduct(c *gin.Context) {
	var product models.MasterProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if product.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Product name is required"})
		return
	}
	if product.SKU != "" {
		var existing models.MasterProduct
		if err := s.db.Where("sku = ?", product.SKU).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"detail": "A product with that SKU already exists"})
			return
		}
	}

	product.ID = 0
	product.IsActive = true
	if product.Unit == "" {
		product.Unit = "unit"
	}
	if product.UnitsPerOrder <= 0 {
		product.UnitsPerOrder = 1
	}
	if err := s.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateMasterProduct updates a catalog entry. Linked inventory items
// are not touched until a sync is requested.
func (s *Server) UpdateMasterProduct(c *gin.Context) {
	var product models.MasterProduct
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Master product not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	delete(updates, "id")
	delete(updates, "created_at")

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.db.Where("id = ?", product.ID).First(&product)
	c.JSON(http.StatusOK, product)
}

// DeleteMasterProduct deactivates a catalog entry. Linked inventory
// items keep their local copies.
func (s *Server) DeleteMasterProduct(c *gin.Context) {
	var product models.MasterProduct
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Master product not found"})
		return
	}

	if err := s.db.Model(&product).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// applyMasterToItem copies catalog details onto a linked inventory item,
// leaving property-local stock and par levels alone
func applyMasterToItem(product *models.MasterProduct, item *models.InventoryItem) {
	item.Name = product.Name
	item.Description = product.Description
	item.Category = product.Category
	item.Subcategory = product.Subcategory
	item.Brand = product.Brand
	item.Qty = product.Qty
	item.ProductNotes = product.ProductNotes
	item.SupplierID = product.SupplierID
	item.Unit = product.Unit
	item.OrderUnit = product.OrderUnit
	item.UnitsPerOrder = product.UnitsPerOrder
	item.UnitPrice = product.UnitPrice
}

// AssignRequest places a master product into a property's inventory
type AssignRequest struct {
	PropertyID uint     `json:"property_id" binding:"required"`
	ParLevel   *float64 `json:"par_level"`
	OrderAt    *float64 `json:"order_at"`
}

// AssignMasterProduct creates a linked inventory item for a property
// from a catalog entry
func (s *Server) AssignMasterProduct(c *gin.Context) {
	var product models.MasterProduct
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Master product not found"})
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.InventoryItem
	if err := s.db.Where("property_id = ? AND master_product_id = ?", req.PropertyID, product.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Product is already assigned to this property"})
		return
	}

	item := models.InventoryItem{
		PropertyID:      req.PropertyID,
		MasterProductID: &product.ID,
		IsActive:        true,
	}
	applyMasterToItem(&product, &item)

	item.ParLevel = req.ParLevel
	if item.ParLevel == nil {
		item.ParLevel = product.DefaultParLevel
	}
	item.OrderAt = req.OrderAt
	if item.OrderAt == nil {
		item.OrderAt = product.DefaultOrderAt
	}

	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UnassignMasterProduct detaches the link for one property, keeping the
// local item as a standalone record
func (s *Server) UnassignMasterProduct(c *gin.Context) {
	var item models.InventoryItem
	if err := s.db.Where("master_product_id = ? AND property_id = ?",
		paramID(c, "id"), paramID(c, "propertyId")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No linked inventory item for that property"})
		return
	}

	if err := s.db.Model(&item).Update("master_product_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unassigned"})
}

// SyncRequest names the product to push out to linked items
type SyncRequest struct {
	MasterProductID uint `json:"master_product_id" binding:"required"`
}

// SyncFromMaster pushes one catalog entry's details to every linked
// inventory item
func (s *Server) SyncFromMaster(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var product models.MasterProduct
	if err := s.db.Where("id = ?", req.MasterProductID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Master product not found"})
		return
	}

	var items []models.InventoryItem
	s.db.Where("master_product_id = ?", product.ID).Find(&items)

	for i := range items {
		applyMasterToItem(&product, &items[i])
		if err := s.db.Save(&items[i]).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"synced_items": len(items)})
}

// SyncAll pushes every active catalog entry to its linked items
func (s *Server) SyncAll(c *gin.Context) {
	var products []models.MasterProduct
	s.db.Where("is_active = ?", true).Find(&products)

	total := 0
	for p := range products {
		var items []models.InventoryItem
		s.db.Where("master_product_id = ?", products[p].ID).Find(&items)
		for i := range items {
			applyMasterToItem(&products[p], &items[i])
			if err := s.db.Save(&items[i]).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
			total++
		}
	}
	c.JSON(http.StatusOK, gin.H{"synced_items": total, "products": len(products)})
}

// SeedRequest names the property whose inventory seeds the catalog
type SeedRequest struct {
	PropertyID uint `json:"property_id" binding:"required"`
}

// SeedFromProperty builds catalog entries from a property's existing
// inventory, linking the items as it goes. Items already linked are
// skipped.
func (s *Server) SeedFromProperty(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var items []models.InventoryItem
	s.db.Where("property_id = ? AND master_product_id IS NULL AND is_active = ?", req.PropertyID, true).Find(&items)

	created := 0
	for i := range items {
		item := &items[i]

		var existing models.MasterProduct
		if err := s.db.Where("name = ? AND category = ?", item.Name, item.Category).First(&existing).Error; err == nil {
			s.db.Model(item).Update("master_product_id", existing.ID)
			continue
		}

		product := models.MasterProduct{
			Name:          item.Name,
			Category:      item.Category,
			Subcategory:   item.Subcategory,
			Description:   item.Description,
			Brand:         item.Brand,
			Qty:           item.Qty,
			ProductNotes:  item.ProductNotes,
			SupplierID:    item.SupplierID,
			Unit:          item.Unit,
			OrderUnit:     item.OrderUnit,
			UnitsPerOrder: item.UnitsPerOrder,
			UnitPrice:     item.UnitPrice,
			IsActive:      true,
		}
		product.DefaultParLevel = item.ParLevel
		product.DefaultOrderAt = item.OrderAt

		if err := s.db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		s.db.Model(item).Update("master_product_id", product.ID)
		created++
	}

	c.JSON(http.StatusOK, gin.H{"created_products": created, "scanned_items": len(items)})
}

// UploadMasterProductsCSV bulk-imports catalog entries from a CSV with
// header: name,sku,category,subcategory,brand,unit,order_unit,units_per_order,unit_price
func (s *Server) UploadMasterProductsCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Empty or unreadable CSV"})
		return
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "CSV must have a 'name' column"})
		return
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	created, skipped := 0, 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Bad CSV on line %d: %v", line, err)})
			return
		}

		name := field(record, "name")
		if name == "" {
			skipped++
			continue
		}
		sku := field(record, "sku")
		if sku != "" {
			var existing models.MasterProduct
			if err := s.db.Where("sku = ?", sku).First(&existing).Error; err == nil {
				skipped++
				continue
			}
		}

		product := models.MasterProduct{
			Name:        name,
			SKU:         sku,
			Category:    field(record, "category"),
			Subcategory: field(record, "subcategory"),
			Brand:       field(record, "brand"),
			Unit:        field(record, "unit"),
			OrderUnit:   field(record, "order_unit"),
			IsActive:    true,
		}
		if product.Unit == "" {
			product.Unit = "unit"
		}
		product.UnitsPerOrder = 1
		if v := field(record, "units_per_order"); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				product.UnitsPerOrder = parsed
			}
		}
		if v := field(record, "unit_price"); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				product.UnitPrice = &parsed
			}
		}

		if err := s.db.Create(&product).Error; err != nil {
			skipped++
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "skipped": skipped})
}

// ListUnlinkedItems lists inventory items not yet tied to a catalog
// entry, grouped by property
func (s *Server) ListUnlinkedItems(c *gin.Context) {
	var items []models.InventoryItem
	query := s.db.Preload("Supplier").Where("master_product_id IS NULL AND is_active = ?", true)
	if v := c.Query("property_id"); v != "" {
		query = query.Where("property_id = ?", v)
	}
	query.Order("property_id, name").Find(&items)
	c.JSON(http.StatusOK, items)
}
