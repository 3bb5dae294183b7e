package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"campstock/internal/api"
	"campstock/internal/models"
	"campstock/internal/workflow"
)

// ============== ORDERS ==============

// ListOrders lists orders visible to the current user
func (c *Client) ListOrders(ctx context.Context, status string) ([]api.OrderDetail, error) {
	path := "/api/v1/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var orders []api.OrderDetail
	err := c.getJSON(ctx, path, &orders)
	return orders, err
}

// GetOrder fetches one order with its items
func (c *Client) GetOrder(ctx context.Context, id uint) (*api.OrderDetail, error) {
	var order api.OrderDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListPendingReview lists orders awaiting review
func (c *Client) ListPendingReview(ctx context.Context) ([]api.OrderDetail, error) {
	var orders []api.OrderDetail
	err := c.getJSON(ctx, "/api/v1/orders/pending-review", &orders)
	return orders, err
}

// ListReadyToOrder lists approved orders ready to place with suppliers
func (c *Client) ListReadyToOrder(ctx context.Context) ([]api.OrderDetail, error) {
	var orders []api.OrderDetail
	err := c.getJSON(ctx, "/api/v1/orders/ready-to-order", &orders)
	return orders, err
}

// CreateOrder creates a new draft order
func (c *Client) CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AutoGenerateOrder builds a draft order from low-stock suggestions
func (c *Client) AutoGenerateOrder(ctx context.Context, propertyID uint) (*models.Order, error) {
	var order models.Order
	req := api.AutoGenerateRequest{PropertyID: propertyID}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/orders/auto-generate", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// checkOrderEditable refuses an order-line mutation locally, before any
// request is sent, when the session may not edit the order. Reviewers
// adjusting quantities on a submitted order pass when reviewing is true.
func (c *Client) checkOrderEditable(ctx context.Context, orderID uint, reviewing bool) error {
	if !c.session.LoggedIn() {
		return ErrNotLoggedIn
	}
	order, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if c.session.CanEditOrder(&order.Order) {
		return nil
	}
	if reviewing && c.session.CanReview() &&
		(order.Status == string(models.OrderStatusSubmitted) || order.Status == string(models.OrderStatusUnderReview)) {
		return nil
	}
	return ErrForbidden
}

// AddOrderItem adds a line to an editable order
func (c *Client) AddOrderItem(ctx context.Context, orderID uint, item api.OrderItemRequest) (*api.OrderDetail, error) {
	if err := c.checkOrderEditable(ctx, orderID, false); err != nil {
		return nil, err
	}
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/items", orderID), item, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderItem changes one order line
func (c *Client) UpdateOrderItem(ctx context.Context, orderID, itemID uint, req api.UpdateOrderItemRequest) (*api.OrderItemDetail, error) {
	if err := c.checkOrderEditable(ctx, orderID, true); err != nil {
		return nil, err
	}
	var item api.OrderItemDetail
	if err := c.sendJSON(ctx, http.MethodPut,
		fmt.Sprintf("/api/v1/orders/%d/items/%d", orderID, itemID), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteOrderItem removes a line from an editable order
func (c *Client) DeleteOrderItem(ctx context.Context, orderID, itemID uint) error {
	if err := c.checkOrderEditable(ctx, orderID, false); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d/items/%d", orderID, itemID), nil, "", nil)
}

// SubmitOrder submits a draft order for review
func (c *Client) SubmitOrder(ctx context.Context, id uint) (*api.OrderDetail, error) {
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/submit", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ResubmitOrder resubmits after changes were requested
func (c *Client) ResubmitOrder(ctx context.Context, id uint) (*api.OrderDetail, error) {
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/resubmit", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReviewOrder applies a review decision: approve, request_changes or reject
func (c *Client) ReviewOrder(ctx context.Context, id uint, action, notes string) (*api.OrderDetail, error) {
	if err := c.session.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor); err != nil {
		return nil, err
	}
	var order api.OrderDetail
	req := api.ReviewRequest{Action: action, Notes: notes}
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/review", id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrdered marks an approved order as placed with suppliers
func (c *Client) MarkOrdered(ctx context.Context, id uint) (*api.OrderDetail, error) {
	if err := c.session.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor, models.RolePurchasingTeam); err != nil {
		return nil, err
	}
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/mark-ordered", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UnmarkOrdered reverts a placed order back to approved
func (c *Client) UnmarkOrdered(ctx context.Context, id uint) (*api.OrderDetail, error) {
	if err := c.session.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor, models.RolePurchasingTeam); err != nil {
		return nil, err
	}
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/unmark-ordered", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceiveOrder records received quantities; set finalize to commit the
// stock changes and close out the order
func (c *Client) ReceiveOrder(ctx context.Context, id uint, req api.ReceiveRequest) (*api.OrderDetail, error) {
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/receive", id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// WithdrawOrder cancels an order before it is placed
func (c *Client) WithdrawOrder(ctx context.Context, id uint) (*api.OrderDetail, error) {
	var order api.OrderDetail
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/withdraw", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPurchaseList fetches the supplier-grouped purchase list
func (c *Client) GetPurchaseList(ctx context.Context) (*workflow.PurchaseList, error) {
	if err := c.session.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor, models.RolePurchasingTeam); err != nil {
		return nil, err
	}
	var list workflow.PurchaseList
	if err := c.getJSON(ctx, "/api/v1/orders/supplier-purchase-list", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ============== INVENTORY ==============

// ListInventory lists a property's inventory items
func (c *Client) ListInventory(ctx context.Context, propertyID uint, lowStockOnly bool) ([]models.InventoryItem, error) {
	path := fmt.Sprintf("/api/v1/inventory/items?property_id=%d", propertyID)
	if lowStockOnly {
		path += "&low_stock=true"
	}
	var items []models.InventoryItem
	err := c.getJSON(ctx, path, &items)
	return items, err
}

// CreateInventoryItem adds an item to a property's inventory
func (c *Client) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	var created models.InventoryItem
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/inventory/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInventoryItem applies field updates to an inventory item
func (c *Client) UpdateInventoryItem(ctx context.Context, id uint, updates map[string]interface{}) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/inventory/items/%d", id), updates, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateInventoryCount records a stock-count session
func (c *Client) CreateInventoryCount(ctx context.Context, req api.CreateCountRequest) (*models.InventoryCount, error) {
	var count models.InventoryCount
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/inventory/counts", req, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// FinalizeInventoryCount applies a count session to live stock
func (c *Client) FinalizeInventoryCount(ctx context.Context, id uint) (*models.InventoryCount, error) {
	var count models.InventoryCount
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/inventory/counts/%d/finalize", id), nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// ExportInventoryCSV downloads a property's inventory as CSV, returning
// the file content and the server-generated filename
func (c *Client) ExportInventoryCSV(ctx context.Context, propertyID uint) ([]byte, string, error) {
	return c.download(ctx, fmt.Sprintf("/api/v1/inventory/export/%d", propertyID))
}

// ============== SUPPLIERS / PROPERTIES / NOTIFICATIONS ==============

// ListSuppliers lists active suppliers
func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := c.getJSON(ctx, "/api/v1/suppliers", &suppliers)
	return suppliers, err
}

// ListProperties lists the properties visible to the current user
func (c *Client) ListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := c.getJSON(ctx, "/api/v1/properties", &properties)
	return properties, err
}

// ListNotifications lists the user's notifications
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	path := "/api/v1/notifications"
	if unreadOnly {
		path += "?unread=true"
	}
	var notifications []models.Notification
	err := c.getJSON(ctx, path, &notifications)
	return notifications, err
}

// UnreadCount fetches the unread notification count
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var resp struct {
		UnreadCount int64 `json:"unread_count"`
	}
	err := c.getJSON(ctx, "/api/v1/notifications/unread-count", &resp)
	return resp.UnreadCount, err
}

// MarkAllNotificationsRead marks every unread notification read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/v1/notifications/mark-all-read", nil, nil)
}

// ============== RECEIPTS ==============

// UploadReceipt uploads a receipt image, optionally linked to an order
func (c *Client) UploadReceipt(ctx context.Context, fileName string, content io.Reader, orderID *uint) (*models.Receipt, error) {
	if err := c.session.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor, models.RolePurchasingTeam); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if orderID != nil {
		fields["order_id"] = fmt.Sprintf("%d", *orderID)
	}
	var receipt models.Receipt
	if err := c.uploadFile(ctx, "/api/v1/receipts/upload", "file", fileName, content, fields, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// VerifyReceipt marks a receipt as manually verified
func (c *Client) VerifyReceipt(ctx context.Context, id uint) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/receipts/%d/verify", id), nil, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetItemTrends fetches the merged stock/order history for one item
func (c *Client) GetItemTrends(ctx context.Context, itemID uint) ([]workflow.TrendPoint, error) {
	if err := c.session.RequireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	var resp struct {
		Trends []workflow.TrendPoint `json:"trends"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/v1/admin/item-trends/%d", itemID), &resp)
	return resp.Trends, err
}
