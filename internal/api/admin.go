package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campstock/internal/models"
	"campstock/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetItemTrends returns the merged stock-count and order history for
// one inventory item, as a chronological series for charting
func (s *Server) GetItemTrends(c *gin.Context) {
	itemID := paramID(c, "itemId")

	var item models.InventoryItem
	if err := s.db.Where("id = ?", itemID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Inventory item not found"})
		return
	}

	// Stock observations come from finalized count sessions
	var countItems []models.InventoryCountItem
	s.db.Where("inventory_item_id = ?", itemID).Find(&countItems)

	var stock []workflow.StockPoint
	for _, ci := range countItems {
		var count models.InventoryCount
		if err := s.db.Where("id = ? AND is_finalized = ?", ci.InventoryCountID, true).
			First(&count).Error; err != nil {
			continue
		}
		stock = append(stock, workflow.StockPoint{Date: count.CountDate, Quantity: ci.Quantity})
	}

	// Order observations come from every order line referencing the item
	var orderItems []models.OrderItem
	s.db.Where("inventory_item_id = ?", itemID).Find(&orderItems)

	var orders []workflow.OrderPoint
	for _, oi := range orderItems {
		var order models.Order
		if err := s.db.Where("id = ?", oi.OrderID).First(&order).Error; err != nil {
			continue
		}
		date := order.CreatedAt
		if order.SubmittedAt != nil {
			date = *order.SubmittedAt
		}
		orders = append(orders, workflow.OrderPoint{
			Date:        date,
			OrderNumber: order.OrderNumber,
			Requested:   oi.RequestedQty,
			Approved:    oi.ApprovedQty,
			Received:    oi.ReceivedQty,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":   item.ID,
		"item_name": item.Name,
		"trends":    workflow.MergeTrends(stock, orders),
	})
}

// ExtractOrderPDF stores an uploaded historical order PDF for the
// external extraction service and returns a tracking record. Extraction
// itself runs out of band; the seeded order arrives later through
// SeedHistoricalOrder.
func (s *Server) ExtractOrderPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Only PDF files are accepted"})
		return
	}

	dir := filepath.Join(s.uploadDir, "order-pdfs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	name := fmt.Sprintf("%s.pdf", uuid.New().String())
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"file_url": "/uploads/order-pdfs/" + name,
		"status":   "pending_extraction",
	})
}

// HistoricalItemRequest is one line of a backfilled order
type HistoricalItemRequest struct {
	InventoryItemID *uint    `json:"inventory_item_id"`
	CustomItemName  string   `json:"custom_item_name"`
	SupplierID      *uint    `json:"supplier_id"`
	Quantity        float64  `json:"quantity" binding:"required"`
	Unit            string   `json:"unit"`
	UnitPrice       *float64 `json:"unit_price"`
}

// SeedHistoricalRequest backfills a completed order so trends and spend
// reports include history that predates the system
type SeedHistoricalRequest struct {
	PropertyID  uint                    `json:"property_id" binding:"required"`
	OrderDate   time.Time               `json:"order_date" binding:"required"`
	OrderNumber string                  `json:"order_number"`
	ActualTotal *float64                `json:"actual_total"`
	Items       []HistoricalItemRequest `json:"items" binding:"required"`
}

// SeedHistoricalOrder inserts an already-received order dated in the
// past. Stock levels are not touched; the goods were consumed long ago.
func (s *Server) SeedHistoricalOrder(c *gin.Context) {
	var req SeedHistoricalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "At least one item is required"})
		return
	}

	user := currentUser(c)
	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = generateOrderNumber()
	}

	date := req.OrderDate
	order := models.Order{
		OrderNumber: orderNumber,
		PropertyID:  req.PropertyID,
		Status:      string(models.OrderStatusReceived),
		CreatedBy:   &user.ID,
		SubmittedAt: &date,
		OrderedAt:   &date,
		ReceivedAt:  &date,
	}
	order.ActualTotal = req.ActualTotal
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	for _, line := range req.Items {
		qty := line.Quantity
		item := models.OrderItem{
			OrderID:         order.ID,
			InventoryItemID: line.InventoryItemID,
			CustomItemName:  line.CustomItemName,
			SupplierID:      line.SupplierID,
			Flag:            string(models.FlagManual),
			RequestedQty:    qty,
			ApprovedQty:     &qty,
			ReceivedQty:     &qty,
			StockCommitted:  qty,
			Unit:            line.Unit,
			UnitPrice:       line.UnitPrice,
			IsReceived:      true,
		}
		if err := s.db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		order.Items = append(order.Items, item)
	}

	if err := s.saveOrderTotal(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	// Backdate the record so trend charts place it correctly
	s.db.Model(&order).Update("created_at", req.OrderDate)

	c.JSON(http.StatusCreated, order)
}

// ListAdminProperties lists every property, inactive ones included
func (s *Server) ListAdminProperties(c *gin.Context) {
	var properties []models.Property
	s.db.Unscoped().Where("deleted_at IS NULL").Order("name").Find(&properties)
	c.JSON(http.StatusOK, properties)
}
