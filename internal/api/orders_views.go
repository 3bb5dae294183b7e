package api

import (
	"fmt"
	"net/http"

	"campstock/internal/models"
	"campstock/internal/workflow"

	"github.com/gin-gonic/gin"
)

// purchaseListStatuses are the statuses whose items appear on the
// consolidated supplier purchase list
var purchaseListStatuses = []string{
	string(models.OrderStatusApproved),
	string(models.OrderStatusOrdered),
	string(models.OrderStatusPartiallyReceived),
}

// GetSupplierPurchaseList returns approved order items across all
// properties, grouped by supplier and category for the purchasing team
func (s *Server) GetSupplierPurchaseList(c *gin.Context) {
	query := s.orderQuery().Where("status IN (?)", purchaseListStatuses)
	if v := c.Query("status"); v != "" {
		// The filter narrows within the purchase-list statuses; drafts
		// and review-stage orders never appear here.
		valid := false
		for _, allowed := range purchaseListStatuses {
			if v == allowed {
				valid = true
				break
			}
		}
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Invalid purchase list status %q", v)})
			return
		}
		query = s.orderQuery().Where("status = ?", v)
	}

	var orders []models.Order
	query.Find(&orders)

	var flat []workflow.PurchaseItem
	supplierNames := make(map[string]bool)
	for i := range orders {
		order := &orders[i]
		propertyName := ""
		if order.Property != nil {
			propertyName = order.Property.Name
		}
		for j := range order.Items {
			item := &order.Items[j]
			qty := item.FinalQuantity()
			if qty <= 0 {
				continue
			}

			supplierName := ""
			if item.Supplier != nil {
				supplierName = item.Supplier.Name
			} else if item.InventoryItem != nil && item.InventoryItem.Supplier != nil {
				supplierName = item.InventoryItem.Supplier.Name
			}
			if supplierName != "" {
				supplierNames[supplierName] = true
			}

			category := ""
			unit := item.Unit
			if item.InventoryItem != nil {
				category = item.InventoryItem.Category
				if unit == "" {
					unit = item.InventoryItem.EffectiveOrderUnit()
				}
			}

			flat = append(flat, workflow.PurchaseItem{
				ItemID:       item.ID,
				ItemName:     item.DisplayName(),
				Quantity:     qty,
				Unit:         unit,
				UnitPrice:    item.UnitPrice,
				SupplierName: supplierName,
				Category:     category,
				OrderID:      order.ID,
				OrderNumber:  order.OrderNumber,
				PropertyName: propertyName,
			})
		}
	}

	contacts := make(map[string]workflow.SupplierInfo)
	if len(supplierNames) > 0 {
		names := make([]string, 0, len(supplierNames))
		for name := range supplierNames {
			names = append(names, name)
		}
		var suppliers []models.Supplier
		s.db.Where("name IN (?)", names).Find(&suppliers)
		for _, sup := range suppliers {
			contacts[sup.Name] = workflow.SupplierInfo{
				ID:          sup.ID,
				ContactName: sup.ContactName,
				Email:       sup.Email,
				Phone:       sup.Phone,
			}
		}
	}

	c.JSON(http.StatusOK, workflow.BuildPurchaseList(flat, contacts))
}

// FlaggedItemView is one problem item surfaced for the purchasing team
type FlaggedItemView struct {
	OrderItemID      uint     `json:"order_item_id"`
	OrderID          uint     `json:"order_id"`
	OrderNumber      string   `json:"order_number"`
	PropertyName     string   `json:"property_name,omitempty"`
	ItemName         string   `json:"item_name"`
	RequestedQty     float64  `json:"requested_quantity"`
	ReceivedQty      *float64 `json:"received_quantity,omitempty"`
	IssueDescription string   `json:"issue_description,omitempty"`
	IssuePhotoURL    string   `json:"issue_photo_url,omitempty"`
	ReceivingNotes   string   `json:"receiving_notes,omitempty"`
}

// GetFlaggedItems lists order items flagged with receiving issues
func (s *Server) GetFlaggedItems(c *gin.Context) {
	var orders []models.Order
	s.orderQuery().
		Where("status IN (?)", []string{
			string(models.OrderStatusOrdered),
			string(models.OrderStatusPartiallyReceived),
			string(models.OrderStatusReceived),
		}).
		Find(&orders)

	result := []FlaggedItemView{}
	for i := range orders {
		order := &orders[i]
		propertyName := ""
		if order.Property != nil {
			propertyName = order.Property.Name
		}
		for j := range order.Items {
			item := &order.Items[j]
			if !item.HasIssue {
				continue
			}
			result = append(result, FlaggedItemView{
				OrderItemID:      item.ID,
				OrderID:          order.ID,
				OrderNumber:      order.OrderNumber,
				PropertyName:     propertyName,
				ItemName:         item.DisplayName(),
				RequestedQty:     item.RequestedQty,
				ReceivedQty:      item.ReceivedQty,
				IssueDescription: item.IssueDescription,
				IssuePhotoURL:    item.IssuePhotoURL,
				ReceivingNotes:   item.ReceivingNotes,
			})
		}
	}
	c.JSON(http.StatusOK, result)
}

// UnreceivedItemView is one outstanding line on a placed order
type UnreceivedItemView struct {
	OrderItemID  uint     `json:"order_item_id"`
	OrderID      uint     `json:"order_id"`
	OrderNumber  string   `json:"order_number"`
	PropertyID   uint     `json:"property_id"`
	PropertyName string   `json:"property_name,omitempty"`
	ItemName     string   `json:"item_name"`
	ExpectedQty  float64  `json:"expected_quantity"`
	ReceivedQty  *float64 `json:"received_quantity,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	SupplierName string   `json:"supplier_name,omitempty"`
}

// GetUnreceivedItems lists items still outstanding on placed orders,
// optionally scoped to one property via the path parameter
func (s *Server) GetUnreceivedItems(c *gin.Context) {
	query := s.orderQuery().Where("status IN (?)", []string{
		string(models.OrderStatusOrdered),
		string(models.OrderStatusPartiallyReceived),
	})

	if c.Param("propertyId") != "" {
		propertyID := paramID(c, "propertyId")
		if !s.requirePropertyAccess(c, propertyID) {
			return
		}
		query = query.Where("property_id = ?", propertyID)
	}

	var orders []models.Order
	query.Find(&orders)

	result := []UnreceivedItemView{}
	for i := range orders {
		order := &orders[i]
		propertyName := ""
		if order.Property != nil {
			propertyName = order.Property.Name
		}
		for j := range order.Items {
			item := &order.Items[j]
			if item.IsReceived {
				continue
			}
			supplierName := ""
			if item.Supplier != nil {
				supplierName = item.Supplier.Name
			}
			result = append(result, UnreceivedItemView{
				OrderItemID:  item.ID,
				OrderID:      order.ID,
				OrderNumber:  order.OrderNumber,
				PropertyID:   order.PropertyID,
				PropertyName: propertyName,
				ItemName:     item.DisplayName(),
				ExpectedQty:  item.FinalQuantity(),
				ReceivedQty:  item.ReceivedQty,
				Unit:         item.Unit,
				SupplierName: supplierName,
			})
		}
	}
	c.JSON(http.StatusOK, result)
}

// PropertyOrderSummary aggregates order activity for one property
type PropertyOrderSummary struct {
	PropertyID     uint    `json:"property_id"`
	PropertyName   string  `json:"property_name"`
	TotalOrders    int     `json:"total_orders"`
	PendingReview  int     `json:"pending_review"`
	Approved       int     `json:"approved"`
	AwaitingGoods  int     `json:"awaiting_goods"`
	Received       int     `json:"received"`
	EstimatedSpend float64 `json:"estimated_spend"`
}

// GetOrderSummaryByProperty returns per-property order counts and spend
func (s *Server) GetOrderSummaryByProperty(c *gin.Context) {
	var properties []models.Property
	s.db.Where("is_active = ?", true).Order("name").Find(&properties)

	var orders []models.Order
	s.db.Find(&orders)

	byProperty := make(map[uint]*PropertyOrderSummary, len(properties))
	result := make([]*PropertyOrderSummary, 0, len(properties))
	for _, p := range properties {
		summary := &PropertyOrderSummary{PropertyID: p.ID, PropertyName: p.Name}
		byProperty[p.ID] = summary
		result = append(result, summary)
	}

	for i := range orders {
		order := &orders[i]
		summary, ok := byProperty[order.PropertyID]
		if !ok {
			continue
		}
		summary.TotalOrders++
		switch models.OrderStatus(order.Status) {
		case models.OrderStatusSubmitted, models.OrderStatusUnderReview:
			summary.PendingReview++
		case models.OrderStatusApproved:
			summary.Approved++
		case models.OrderStatusOrdered, models.OrderStatusPartiallyReceived:
			summary.AwaitingGoods++
		case models.OrderStatusReceived:
			summary.Received++
		}
		if !workflow.IsTerminal(models.OrderStatus(order.Status)) || order.Status == string(models.OrderStatusReceived) {
			summary.EstimatedSpend += order.EstimatedTotal
		}
	}

	c.JSON(http.StatusOK, result)
}
