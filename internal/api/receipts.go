package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListReceipts lists receipts, newest first, optionally filtered by
// order or verification state
func (s *Server) ListReceipts(c *gin.Context) {
	query := s.db.Preload("Supplier").Preload("Order")
	if v := c.Query("order_id"); v != "" {
		query = query.Where("order_id = ?", v)
	}
	if v := c.Query("verified"); v != "" {
		query = query.Where("is_manually_verified = ?", v == "true")
	}

	var receipts []models.Receipt
	query.Order("created_at desc").Find(&receipts)
	c.JSON(http.StatusOK, receipts)
}

// GetReceipt returns one receipt with its extracted lines
func (s *Server) GetReceipt(c *gin.Context) {
	var receipt models.Receipt
	if err := s.db.Preload("Supplier").Preload("Order").
		Where("id = ?", paramID(c, "id")).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// CreateReceiptRequest creates a receipt record from already-known data,
// for example when the image lives elsewhere
type CreateReceiptRequest struct {
	OrderID       *uint                   `json:"order_id"`
	SupplierID    *uint                   `json:"supplier_id"`
	ImageURL      string                  `json:"image_url" binding:"required"`
	ReceiptDate   *time.Time              `json:"receipt_date"`
	ReceiptNumber string                  `json:"receipt_number"`
	Subtotal      *float64                `json:"subtotal"`
	Tax           *float64                `json:"tax"`
	Total         *float64                `json:"total"`
	LineItems     models.ReceiptLineItems `json:"line_items"`
	Notes         string                  `json:"notes"`
}

// CreateReceipt records a receipt without going through image upload
func (s *Server) CreateReceipt(c *gin.Context) {
	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	receipt := models.Receipt{
		OrderID:       req.OrderID,
		SupplierID:    req.SupplierID,
		ImageURL:      req.ImageURL,
		ReceiptDate:   req.ReceiptDate,
		ReceiptNumber: req.ReceiptNumber,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Total:         req.Total,
		LineItems:     req.LineItems,
		IsProcessed:   len(req.LineItems) > 0,
		UploadedBy:    user.ID,
		Notes:         req.Notes,
	}
	if err := s.db.Create(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.monitor.RecordReceiptUpload()
	c.JSON(http.StatusCreated, receipt)
}

// UploadReceipt stores a receipt image and creates its record. Line
// extraction happens out of band; the receipt stays unprocessed until
// an update fills the extracted fields in.
func (s *Server) UploadReceipt(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic", ".pdf":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Unsupported file type %q", ext)})
		return
	}

	dir := filepath.Join(s.uploadDir, "receipts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	receipt := models.Receipt{
		ImageURL:   "/uploads/receipts/" + name,
		UploadedBy: user.ID,
		LineItems:  models.ReceiptLineItems{},
	}
	if v := c.PostForm("order_id"); v != "" {
		var orderID uint
		if _, err := fmt.Sscanf(v, "%d", &orderID); err == nil {
			receipt.OrderID = &orderID
		}
	}
	if v := c.PostForm("supplier_id"); v != "" {
		var supplierID uint
		if _, err := fmt.Sscanf(v, "%d", &supplierID); err == nil {
			receipt.SupplierID = &supplierID
		}
	}

	if err := s.db.Create(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.monitor.RecordReceiptUpload()
	c.JSON(http.StatusCreated, receipt)
}

// UpdateReceiptRequest carries corrections to a receipt's extracted data
type UpdateReceiptRequest struct {
	OrderID       *uint                    `json:"order_id"`
	SupplierID    *uint                    `json:"supplier_id"`
	ReceiptDate   *time.Time               `json:"receipt_date"`
	ReceiptNumber *string                  `json:"receipt_number"`
	Subtotal      *float64                 `json:"subtotal"`
	Tax           *float64                 `json:"tax"`
	Total         *float64                 `json:"total"`
	LineItems     *models.ReceiptLineItems `json:"line_items"`
	IsProcessed   *bool                    `json:"is_processed"`
	Notes         *string                  `json:"notes"`
}

// UpdateReceipt corrects receipt data, typically after reviewing the
// extracted lines against the paper copy
func (s *Server) UpdateReceipt(c *gin.Context) {
	var receipt models.Receipt
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}

	var req UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if req.OrderID != nil {
		receipt.OrderID = req.OrderID
	}
	if req.SupplierID != nil {
		receipt.SupplierID = req.SupplierID
	}
	if req.ReceiptDate != nil {
		receipt.ReceiptDate = req.ReceiptDate
	}
	if req.ReceiptNumber != nil {
		receipt.ReceiptNumber = *req.ReceiptNumber
	}
	if req.Subtotal != nil {
		receipt.Subtotal = req.Subtotal
	}
	if req.Tax != nil {
		receipt.Tax = req.Tax
	}
	if req.Total != nil {
		receipt.Total = req.Total
	}
	if req.LineItems != nil {
		receipt.LineItems = *req.LineItems
	}
	if req.IsProcessed != nil {
		receipt.IsProcessed = *req.IsProcessed
	}
	if req.Notes != nil {
		receipt.Notes = *req.Notes
	}

	if err := s.db.Save(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// VerifyReceipt marks a receipt as manually checked and rolls its total
// into the linked order's actual cost
func (s *Server) VerifyReceipt(c *gin.Context) {
	var receipt models.Receipt
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}
	if receipt.IsManuallyVerified {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Receipt is already verified"})
		return
	}

	user := currentUser(c)
	now := time.Now().UTC()
	receipt.IsManuallyVerified = true
	receipt.VerifiedBy = &user.ID
	receipt.VerifiedAt = &now

	if err := s.db.Save(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	// Sum verified receipt totals into the order's actual total
	if receipt.OrderID != nil {
		var receipts []models.Receipt
		s.db.Where("order_id = ? AND is_manually_verified = ?", *receipt.OrderID, true).Find(&receipts)
		actual := 0.0
		for _, r := range receipts {
			if r.Total != nil {
				actual += *r.Total
			}
		}
		s.db.Model(&models.Order{}).Where("id = ?", *receipt.OrderID).Update("actual_total", actual)
	}

	c.JSON(http.StatusOK, receipt)
}

// DeleteReceipt removes a receipt record
func (s *Server) DeleteReceipt(c *gin.Context) {
	var receipt models.Receipt
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}
	if err := s.db.Delete(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteReceiptLineItem removes one extracted line by its index
func (s *Server) DeleteReceiptLineItem(c *gin.Context) {
	var receipt models.Receipt
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid line item index"})
		return
	}
	if idx < 0 || idx >= len(receipt.LineItems) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Line item not found"})
		return
	}

	receipt.LineItems = append(receipt.LineItems[:idx], receipt.LineItems[idx+1:]...)
	if err := s.db.Save(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// ListPendingVerification lists processed receipts awaiting manual
// verification
func (s *Server) ListPendingVerification(c *gin.Context) {
	var receipts []models.Receipt
	s.db.Preload("Supplier").Preload("Order").
		Where("is_processed = ? AND is_manually_verified = ?", true, false).
		Order("created_at").
		Find(&receipts)
	c.JSON(http.StatusOK, receipts)
}

// FinancialSummary compares estimated and actual spend
type FinancialSummary struct {
	TotalReceipts    int     `json:"total_receipts"`
	VerifiedReceipts int     `json:"verified_receipts"`
	PendingReceipts  int     `json:"pending_receipts"`
	TotalSpend       float64 `json:"total_spend"`
	EstimatedSpend   float64 `json:"estimated_spend"`
	Variance         float64 `json:"variance"`
}

// GetFinancialDashboard summarizes receipt spend against order estimates
func (s *Server) GetFinancialDashboard(c *gin.Context) {
	var receipts []models.Receipt
	query := s.db
	if v := c.Query("property_id"); v != "" {
		var orderIDs []uint
		rows, err := s.db.Model(&models.Order{}).Where("property_id = ?", v).Select("id").Rows()
		if err == nil {
			for rows.Next() {
				var id uint
				if err := rows.Scan(&id); err == nil {
					orderIDs = append(orderIDs, id)
				}
			}
			rows.Close()
		}
		if len(orderIDs) == 0 {
			c.JSON(http.StatusOK, FinancialSummary{})
			return
		}
		query = query.Where("order_id IN (?)", orderIDs)
	}
	query.Find(&receipts)

	summary := FinancialSummary{TotalReceipts: len(receipts)}
	orderIDs := make(map[uint]bool)
	for _, r := range receipts {
		if r.IsManuallyVerified {
			summary.VerifiedReceipts++
			if r.Total != nil {
				summary.TotalSpend += *r.Total
			}
		} else if r.IsProcessed {
			summary.PendingReceipts++
		}
		if r.OrderID != nil {
			orderIDs[*r.OrderID] = true
		}
	}

	for id := range orderIDs {
		var order models.Order
		if err := s.db.Where("id = ?", id).First(&order).Error; err == nil {
			summary.EstimatedSpend += order.EstimatedTotal
		}
	}
	summary.Variance = summary.TotalSpend - summary.EstimatedSpend

	c.JSON(http.StatusOK, summary)
}

// ListReceiptProperties lists properties that have orders with receipts,
// for the receipt-filter dropdown
func (s *Server) ListReceiptProperties(c *gin.Context) {
	var properties []models.Property
	s.db.Raw(`SELECT DISTINCT p.* FROM properties p
		JOIN orders o ON o.property_id = p.id
		JOIN receipts r ON r.order_id = o.id
		WHERE r.deleted_at IS NULL
		ORDER BY p.name`).Scan(&properties)
	c.JSON(http.StatusOK, properties)
}

// ListOrdersByProperty lists a property's placed orders for linking
// receipts
func (s *Server) ListOrdersByProperty(c *gin.Context) {
	var orders []models.Order
	s.db.Where("property_id = ? AND status IN (?)", paramID(c, "id"), []string{
		string(models.OrderStatusOrdered),
		string(models.OrderStatusPartiallyReceived),
		string(models.OrderStatusReceived),
	}).Order("ordered_at desc").Find(&orders)
	c.JSON(http.StatusOK, orders)
}

// AddToInventoryRequest promotes an unmatched receipt line into a
// property's inventory
type AddToInventoryRequest struct {
	ReceiptID  uint     `json:"receipt_id" binding:"required"`
	LineIndex  int      `json:"line_index"`
	PropertyID uint     `json:"property_id" binding:"required"`
	Category   string   `json:"category"`
	Unit       string   `json:"unit"`
	ParLevel   *float64 `json:"par_level"`
}

// AddUnmatchedToInventory creates an inventory item from an unmatched
// receipt line so future orders can reference it
func (s *Server) AddUnmatchedToInventory(c *gin.Context) {
	var req AddToInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var receipt models.Receipt
	if err := s.db.Where("id = ?", req.ReceiptID).First(&receipt).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Receipt not found"})
		return
	}
	if req.LineIndex < 0 || req.LineIndex >= len(receipt.LineItems) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Line item not found"})
		return
	}
	line := receipt.LineItems[req.LineIndex]
	if line.Matched {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Line item is already matched to an order item"})
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	price := line.UnitPrice
	item := models.InventoryItem{
		PropertyID: req.PropertyID,
		Name:       line.Name,
		Category:   req.Category,
		SupplierID: receipt.SupplierID,
		Unit:       unit,
		UnitPrice:  &price,
		ParLevel:   req.ParLevel,
		IsActive:   true,
	}
	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	receipt.LineItems[req.LineIndex].Matched = true
	s.db.Save(&receipt)

	c.JSON(http.StatusCreated, item)
}
