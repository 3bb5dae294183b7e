package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"campstock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// generateOrderNumber creates a unique order number like ORD-20260830-1A2B3C
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// OrderItemDetail is an order item enriched with display fields
type OrderItemDetail struct {
	models.OrderItem
	ItemName     string  `json:"item_name"`
	SupplierName string  `json:"supplier_name,omitempty"`
	Category     string  `json:"category,omitempty"`
	FinalQty     float64 `json:"final_quantity"`
	Total        float64 `json:"line_total"`
}

// OrderDetail is an order enriched with names and totals for display
type OrderDetail struct {
	models.Order
	PropertyName        string            `json:"property_name,omitempty"`
	CreatedByName       string            `json:"created_by_name,omitempty"`
	ReviewedByName      string            `json:"reviewed_by_name,omitempty"`
	Items               []OrderItemDetail `json:"items"`
	ItemCount           int               `json:"item_count"`
	TotalRequestedValue float64           `json:"total_requested_value"`
	TotalApprovedValue  float64           `json:"total_approved_value"`
}

// orderQuery preloads everything needed to build an order detail
func (s *Server) orderQuery() *gorm.DB {
	return s.db.Preload("Items").
		Preload("Items.InventoryItem").
		Preload("Items.InventoryItem.Supplier").
		Preload("Items.Supplier").
		Preload("Property")
}

// findOrder fetches one order with details, writing a 404 when missing
func (s *Server) findOrder(c *gin.Context, id uint) (*models.Order, bool) {
	var order models.Order
	if err := s.orderQuery().Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return nil, false
	}
	return &order, true
}

// buildOrderDetail assembles the display representation of an order
func (s *Server) buildOrderDetail(order *models.Order) OrderDetail {
	detail := OrderDetail{Order: *order, Items: []OrderItemDetail{}}

	if order.Property != nil {
		detail.PropertyName = order.Property.Name
	}
	if order.CreatedBy != nil {
		var user models.User
		if err := s.db.Where("id = ?", *order.CreatedBy).First(&user).Error; err == nil {
			detail.CreatedByName = user.DisplayName()
		}
	}
	if order.ReviewedBy != nil {
		var user models.User
		if err := s.db.Where("id = ?", *order.ReviewedBy).First(&user).Error; err == nil {
			detail.ReviewedByName = user.DisplayName()
		}
	}

	for i := range order.Items {
		item := &order.Items[i]
		itemDetail := OrderItemDetail{
			OrderItem: *item,
			ItemName:  item.DisplayName(),
			FinalQty:  item.FinalQuantity(),
			Total:     item.LineTotal(),
		}
		if item.Supplier != nil {
			itemDetail.SupplierName = item.Supplier.Name
		} else if item.InventoryItem != nil && item.InventoryItem.Supplier != nil {
			itemDetail.SupplierName = item.InventoryItem.Supplier.Name
		}
		if item.InventoryItem != nil {
			itemDetail.Category = item.InventoryItem.Category
		}

		price := 0.0
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		detail.TotalRequestedValue += item.RequestedQty * price
		detail.TotalApprovedValue += item.FinalQuantity() * price

		detail.Items = append(detail.Items, itemDetail)
	}

	detail.ItemCount = len(detail.Items)
	return detail
}

// saveOrderTotal recomputes and persists the order's estimated total
func (s *Server) saveOrderTotal(order *models.Order) error {
	order.EstimatedTotal = order.EstimateTotal()
	return s.db.Model(order).Update("estimated_total", order.EstimatedTotal).Error
}

// ============== ORDER CRUD ==============

// ListOrders lists orders, scoped to the camp worker's property
func (s *Server) ListOrders(c *gin.Context) {
	user := currentUser(c)

	var propertyID uint
	if v := c.Query("property_id"); v != "" {
		fmt.Sscanf(v, "%d", &propertyID)
		if !s.requirePropertyAccess(c, propertyID) {
			return
		}
	} else if user.Role == string(models.RoleCampWorker) && user.PropertyID != nil {
		propertyID = *user.PropertyID
	}

	query := s.orderQuery()
	if propertyID != 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)

	result := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		result = append(result, s.buildOrderDetail(&orders[i]))
	}
	c.JSON(http.StatusOK, result)
}

// ListPendingReview lists orders awaiting supervisor review
func (s *Server) ListPendingReview(c *gin.Context) {
	var orders []models.Order
	s.orderQuery().
		Where("status IN (?)", []string{string(models.OrderStatusSubmitted), string(models.OrderStatusUnderReview)}).
		Order("submitted_at").
		Find(&orders)

	result := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		result = append(result, s.buildOrderDetail(&orders[i]))
	}
	c.JSON(http.StatusOK, result)
}

// ListReadyToOrder lists approved orders for the purchasing team
func (s *Server) ListReadyToOrder(c *gin.Context) {
	var orders []models.Order
	s.orderQuery().
		Where("status = ?", string(models.OrderStatusApproved)).
		Order("approved_at").
		Find(&orders)

	result := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		result = append(result, s.buildOrderDetail(&orders[i]))
	}
	c.JSON(http.StatusOK, result)
}

// ListMyOrders lists orders for the current user's property
func (s *Server) ListMyOrders(c *gin.Context) {
	user := currentUser(c)
	if user.PropertyID == nil {
		c.JSON(http.StatusOK, []OrderDetail{})
		return
	}

	var orders []models.Order
	s.orderQuery().Where("property_id = ?", *user.PropertyID).Order("created_at desc").Find(&orders)

	result := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		result = append(result, s.buildOrderDetail(&orders[i]))
	}
	c.JSON(http.StatusOK, result)
}

// GetOrder returns one order with items
func (s *Server) GetOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// OrderItemRequest is one item in an order create/add request
type OrderItemRequest struct {
	InventoryItemID *uint    `json:"inventory_item_id"`
	CustomItemName  string   `json:"custom_item_name"`
	CustomItemDesc  string   `json:"custom_item_description"`
	SupplierID      *uint    `json:"supplier_id"`
	Flag            string   `json:"flag"`
	RequestedQty    float64  `json:"requested_quantity" binding:"required"`
	Unit            string   `json:"unit"`
	UnitPrice       *float64 `json:"unit_price"`
	CampNotes       string   `json:"camp_notes"`
}

func (r *OrderItemRequest) toModel(orderID uint) models.OrderItem {
	flag := r.Flag
	if flag == "" {
		flag = string(models.FlagManual)
	}
	return models.OrderItem{
		OrderID:         orderID,
		InventoryItemID: r.InventoryItemID,
		CustomItemName:  r.CustomItemName,
		CustomItemDesc:  r.CustomItemDesc,
		SupplierID:      r.SupplierID,
		Flag:            flag,
		RequestedQty:    r.RequestedQty,
		Unit:            r.Unit,
		UnitPrice:       r.UnitPrice,
		CampNotes:       r.CampNotes,
	}
}

// CreateOrderRequest is the new-order request body
type CreateOrderRequest struct {
	PropertyID uint               `json:"property_id" binding:"required"`
	WeekOf     *time.Time         `json:"week_of"`
	Notes      string             `json:"notes"`
	Items      []OrderItemRequest `json:"items"`
}

// CreateOrder creates a new draft order
func (s *Server) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !s.requirePropertyAccess(c, req.PropertyID) {
		return
	}

	user := currentUser(c)
	order := models.Order{
		OrderNumber: generateOrderNumber(),
		PropertyID:  req.PropertyID,
		WeekOf:      req.WeekOf,
		Notes:       req.Notes,
		CreatedBy:   &user.ID,
		Status:      string(models.OrderStatusDraft),
	}
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	for i := range req.Items {
		item := req.Items[i].toModel(order.ID)
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

	c.JSON(http.StatusCreated, order)
}

// AutoGenerateRequest asks for an order built from low-stock items
type AutoGenerateRequest struct {
	PropertyID uint       `json:"property_id" binding:"required"`
	WeekOf     *time.Time `json:"week_of"`
}

// AutoGenerateOrder builds a draft order from items at or below their
// reorder thresholds
func (s *Server) AutoGenerateOrder(c *gin.Context) {
	var req AutoGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !s.requirePropertyAccess(c, req.PropertyID) {
		return
	}

	var items []models.InventoryItem
	s.db.Where("property_id = ? AND is_active = ?", req.PropertyID, true).Find(&items)

	var orderItems []OrderItemRequest
	for i := range items {
		item := &items[i]
		qty := item.SuggestedOrderQty()
		if qty <= 0 {
			continue
		}
		flag := string(models.FlagTrendSuggested)
		if item.IsLowStock() {
			flag = string(models.FlagLowStock)
		}
		orderItems = append(orderItems, OrderItemRequest{
			InventoryItemID: &item.ID,
			SupplierID:      item.SupplierID,
			Flag:            flag,
			RequestedQty:    qty,
			Unit:            item.EffectiveOrderUnit(),
			UnitPrice:       item.UnitPrice,
		})
	}

	if len(orderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No items need to be ordered based on current stock levels"})
		return
	}

	user := currentUser(c)
	order := models.Order{
		OrderNumber: generateOrderNumber(),
		PropertyID:  req.PropertyID,
		WeekOf:      req.WeekOf,
		CreatedBy:   &user.ID,
		Status:      string(models.OrderStatusDraft),
	}
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	for i := range orderItems {
		item := orderItems[i].toModel(order.ID)
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

	c.JSON(http.StatusCreated, order)
}

// UpdateOrderRequest carries editable order header fields
type UpdateOrderRequest struct {
	WeekOf *time.Time `json:"week_of"`
	Notes  *string    `json:"notes"`
}

// UpdateOrder updates order header fields while the order is editable
func (s *Server) UpdateOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	if !order.CanEdit() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Can only update draft or changes-requested orders"})
		return
	}

	user := currentUser(c)
	if order.CreatedBy != nil && *order.CreatedBy != user.ID && user.Role != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Can only update your own orders"})
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.WeekOf != nil {
		order.WeekOf = req.WeekOf
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.db.Set("gorm:save_associations", false).Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder deletes an order that has not entered review
func (s *Server) DeleteOrder(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	if order.Status != string(models.OrderStatusDraft) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Can only delete draft orders"})
		return
	}

	s.db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{})
	if err := s.db.Delete(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ============== ORDER ITEMS ==============

// AddOrderItem adds an item while the order is editable
func (s *Server) AddOrderItem(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	if !order.CanEdit() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Can only add items to draft or changes-requested orders"})
		return
	}

	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item := req.toModel(order.ID)
	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	order.Items = append(order.Items, item)
	if err := s.saveOrderTotal(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.buildOrderDetail(order))
}

// UpdateOrderItemRequest carries item changes. Camp workers edit
// requested quantities while the order is editable; reviewers set
// approved quantities and notes during review.
type UpdateOrderItemRequest struct {
	RequestedQty  *float64 `json:"requested_quantity"`
	ApprovedQty   *float64 `json:"approved_quantity"`
	SupplierID    *uint    `json:"supplier_id"`
	Unit          *string  `json:"unit"`
	UnitPrice     *float64 `json:"unit_price"`
	CampNotes     *string  `json:"camp_notes"`
	ReviewerNotes *string  `json:"reviewer_notes"`
}

// UpdateOrderItem updates one order line
func (s *Server) UpdateOrderItem(c *gin.Context) {
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

	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	reviewing := order.Status == string(models.OrderStatusSubmitted) || order.Status == string(models.OrderStatusUnderReview)

	switch {
	case order.CanEdit():
		if req.RequestedQty != nil {
			item.RequestedQty = *req.RequestedQty
		}
		if req.SupplierID != nil {
			item.SupplierID = req.SupplierID
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.UnitPrice != nil {
			item.UnitPrice = req.UnitPrice
		}
		if req.CampNotes != nil {
			item.CampNotes = *req.CampNotes
		}
	case reviewing:
		if !isSupervisor(user) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Only reviewers can edit items under review"})
			return
		}
		if req.ApprovedQty != nil {
			item.ApprovedQty = req.ApprovedQty
		}
		if req.SupplierID != nil {
			item.SupplierID = req.SupplierID
		}
		if req.ReviewerNotes != nil {
			item.ReviewerNotes = *req.ReviewerNotes
		}
		// First edit moves the order into active review
		if order.Status == string(models.OrderStatusSubmitted) {
			order.Status = string(models.OrderStatusUnderReview)
			if err := s.db.Model(order).Update("status", order.Status).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Cannot edit items on an order with status %q", order.Status)})
		return
	}

	if err := s.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	// Refresh items and recompute the total
	s.db.Preload("InventoryItem").Preload("Supplier").Where("order_id = ?", order.ID).Find(&order.Items)
	if err := s.saveOrderTotal(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	for i := range order.Items {
		if order.Items[i].ID == item.ID {
			detail := OrderItemDetail{
				OrderItem: order.Items[i],
				ItemName:  order.Items[i].DisplayName(),
				FinalQty:  order.Items[i].FinalQuantity(),
				Total:     order.Items[i].LineTotal(),
			}
			if order.Items[i].Supplier != nil {
				detail.SupplierName = order.Items[i].Supplier.Name
			}
			c.JSON(http.StatusOK, detail)
			return
		}
	}
	c.JSON(http.StatusOK, item)
}

// DeleteOrderItem removes an item while the order is editable
func (s *Server) DeleteOrderItem(c *gin.Context) {
	order, ok := s.findOrder(c, paramID(c, "id"))
	if !ok {
		return
	}
	if !s.requirePropertyAccess(c, order.PropertyID) {
		return
	}
	if !order.CanEdit() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Can only remove items from draft or changes-requested orders"})
		return
	}

	if err := s.db.Where("id = ? AND order_id = ?", paramID(c, "itemId"), order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	s.db.Where("order_id = ?", order.ID).Find(&order.Items)
	if err := s.saveOrderTotal(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func isSupervisor(user *models.User) bool {
	return user.Role == string(models.RoleAdmin) || user.Role == string(models.RolePurchasingSupervisor)
}
