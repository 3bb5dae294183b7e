package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"campstock/internal/auth"
	"campstock/internal/database"
	"campstock/internal/models"
	"campstock/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	db     *gorm.DB
	tokens *auth.Manager

	property models.Property
	worker   models.User
	super    models.User
	team     models.User
	admin    models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	tokens := auth.NewManager("test-secret", time.Hour)
	server := NewServer(db, tokens, monitoring.NewMonitor(), t.TempDir())

	env := &testEnv{server: server, db: db, tokens: tokens}

	env.property = models.Property{Name: "Yukon River Camp", Code: "YRC", IsActive: true}
	require.NoError(t, db.Create(&env.property).Error)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	env.worker = models.User{Email: "worker@camp.test", HashedPassword: hash, FullName: "Winnie Worker", Role: string(models.RoleCampWorker), PropertyID: &env.property.ID, IsActive: true}
	env.super = models.User{Email: "super@camp.test", HashedPassword: hash, FullName: "Sam Supervisor", Role: string(models.RolePurchasingSupervisor), IsActive: true}
	env.team = models.User{Email: "team@camp.test", HashedPassword: hash, FullName: "Tess Team", Role: string(models.RolePurchasingTeam), IsActive: true}
	env.admin = models.User{Email: "admin@camp.test", HashedPassword: hash, Role: string(models.RoleAdmin), IsActive: true}
	for _, u := range []*models.User{&env.worker, &env.super, &env.team, &env.admin} {
		require.NoError(t, db.Create(u).Error)
	}

	return env
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.tokens.CreateToken(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, user))
	}

	w := httptest.NewRecorder()
	e.server.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, nil, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("username", "worker@camp.test")
	form.Set("password", "password123")
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token TokenResponse
	decode(t, w, &token)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	req, _ = http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	env.server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var me models.User
	decode(t, w, &me)
	assert.Equal(t, "worker@camp.test", me.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("username", "worker@camp.test")
	form.Set("password", "nope")
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthenticatedRejected(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, nil, "GET", "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (e *testEnv) seedInventory(t *testing.T) (models.Supplier, models.InventoryItem) {
	t.Helper()

	supplier := models.Supplier{Name: "Sysco", ContactName: "Pat", IsActive: true}
	require.NoError(t, e.db.Create(&supplier).Error)

	price := 12.5
	par := 10.0
	item := models.InventoryItem{
		PropertyID:    e.property.ID,
		Name:          "Flour",
		Category:      "Dry Goods",
		SupplierID:    &supplier.ID,
		Unit:          "bag",
		UnitsPerOrder: 1,
		UnitPrice:     &price,
		ParLevel:      &par,
		CurrentStock:  2,
		IsActive:      true,
	}
	require.NoError(t, e.db.Create(&item).Error)
	return supplier, item
}

func (e *testEnv) createDraftOrder(t *testing.T, item models.InventoryItem) OrderDetail {
	t.Helper()

	price := 12.5
	w := e.request(t, &e.worker, "POST", "/api/v1/orders", CreateOrderRequest{
		PropertyID: e.property.ID,
		Items: []OrderItemRequest{
			{InventoryItemID: &item.ID, SupplierID: item.SupplierID, RequestedQty: 4, Unit: "bag", UnitPrice: &price},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Order
	decode(t, w, &created)

	w = e.request(t, &e.worker, "GET", fmt.Sprintf("/api/v1/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail OrderDetail
	decode(t, w, &detail)
	return detail
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)
	order := env.createDraftOrder(t, item)

	assert.Equal(t, string(models.OrderStatusDraft), order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.InDelta(t, 50.0, order.EstimatedTotal, 0.001)

	// Submit
	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var submitted OrderDetail
	decode(t, w, &submitted)
	assert.Equal(t, string(models.OrderStatusSubmitted), submitted.Status)

	// Items are locked once submitted
	w = env.request(t, &env.worker, "PUT",
		fmt.Sprintf("/api/v1/orders/%d/items/%d", order.ID, submitted.Items[0].ID),
		map[string]interface{}{"requested_quantity": 99})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Supervisor reduces the quantity during review, then approves
	w = env.request(t, &env.super, "PUT",
		fmt.Sprintf("/api/v1/orders/%d/items/%d", order.ID, submitted.Items[0].ID),
		map[string]interface{}{"approved_quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID),
		ReviewRequest{Action: "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved OrderDetail
	decode(t, w, &approved)
	assert.Equal(t, string(models.OrderStatusApproved), approved.Status)
	require.NotNil(t, approved.Items[0].ApprovedQty)
	assert.Equal(t, 3.0, *approved.Items[0].ApprovedQty)

	// Purchasing team places it
	w = env.request(t, &env.team, "POST", fmt.Sprintf("/api/v1/orders/%d/mark-ordered", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Record quantities without finalizing: stock must not move
	qty := 3.0
	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{Items: []ReceiveItemRequest{{OrderItemID: approved.Items[0].ID, ReceivedQty: &qty}}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var inv models.InventoryItem
	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 2.0, inv.CurrentStock)

	// Finalize: stock moves and the order closes out
	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{Finalize: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var received OrderDetail
	decode(t, w, &received)
	assert.Equal(t, string(models.OrderStatusReceived), received.Status)

	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 5.0, inv.CurrentStock)

	// Finalizing again must not double-commit stock
	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{Finalize: true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 5.0, inv.CurrentStock)
}

func TestSubmitEmptyOrderRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, &env.worker, "POST", "/api/v1/orders", CreateOrderRequest{PropertyID: env.property.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decode(t, w, &order)

	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestChangesAndResubmit(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)
	order := env.createDraftOrder(t, item)

	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Notes are mandatory for change requests
	w = env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID),
		ReviewRequest{Action: "request_changes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID),
		ReviewRequest{Action: "request_changes", Notes: "order less flour"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var changed OrderDetail
	decode(t, w, &changed)
	assert.Equal(t, string(models.OrderStatusChangesRequested), changed.Status)
	assert.Equal(t, "order less flour", changed.ReviewNotes)

	// Worker edits and resubmits; review state resets
	w = env.request(t, &env.worker, "PUT",
		fmt.Sprintf("/api/v1/orders/%d/items/%d", order.ID, changed.Items[0].ID),
		map[string]interface{}{"requested_quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/resubmit", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resubmitted OrderDetail
	decode(t, w, &resubmitted)
	assert.Equal(t, string(models.OrderStatusSubmitted), resubmitted.Status)
	assert.Empty(t, resubmitted.ReviewNotes)
	assert.Nil(t, resubmitted.Items[0].ApprovedQty)
	assert.Equal(t, 2.0, resubmitted.Items[0].RequestedQty)
}

func TestReviewRequiresSupervisorRole(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)
	order := env.createDraftOrder(t, item)

	env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)

	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID),
		ReviewRequest{Action: "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, &env.team, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID),
		ReviewRequest{Action: "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCampWorkerPropertyIsolation(t *testing.T) {
	env := newTestEnv(t)

	other := models.Property{Name: "Coldfoot Camp", Code: "CFC", IsActive: true}
	require.NoError(t, env.db.Create(&other).Error)

	// Worker cannot create orders for another property
	w := env.request(t, &env.worker, "POST", "/api/v1/orders", CreateOrderRequest{PropertyID: other.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Worker cannot see another property's orders
	foreign := models.Order{OrderNumber: "ORD-20260101-ZZZ999", PropertyID: other.ID, Status: string(models.OrderStatusDraft)}
	require.NoError(t, env.db.Create(&foreign).Error)

	w = env.request(t, &env.worker, "GET", fmt.Sprintf("/api/v1/orders/%d", foreign.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Supervisor can
	w = env.request(t, &env.super, "GET", fmt.Sprintf("/api/v1/orders/%d", foreign.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSupplierPurchaseList(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)
	order := env.createDraftOrder(t, item)

	env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID), ReviewRequest{Action: "approve"})

	// Camp workers are not allowed on the purchase list
	w := env.request(t, &env.worker, "GET", "/api/v1/orders/supplier-purchase-list", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, &env.team, "GET", "/api/v1/orders/supplier-purchase-list", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list struct {
		Suppliers []struct {
			SupplierName string `json:"supplier_name"`
			Categories   []struct {
				Category string `json:"category"`
				Items    []struct {
					ItemName string `json:"item_name"`
				} `json:"items"`
			} `json:"categories"`
			TotalValue float64 `json:"total_value"`
		} `json:"suppliers"`
		TotalOrders int     `json:"total_orders"`
		GrandTotal  float64 `json:"grand_total"`
	}
	decode(t, w, &list)

	require.Len(t, list.Suppliers, 1)
	assert.Equal(t, "Sysco", list.Suppliers[0].SupplierName)
	require.Len(t, list.Suppliers[0].Categories, 1)
	assert.Equal(t, "Dry Goods", list.Suppliers[0].Categories[0].Category)
	assert.Equal(t, "Flour", list.Suppliers[0].Categories[0].Items[0].ItemName)
	assert.Equal(t, 1, list.TotalOrders)
	assert.InDelta(t, 50.0, list.GrandTotal, 0.001)
}

func TestPurchaseListCatalogSupplierFallback(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)

	// The order line names no supplier; the inventory catalog does
	price := 12.5
	w := env.request(t, &env.worker, "POST", "/api/v1/orders", CreateOrderRequest{
		PropertyID: env.property.ID,
		Items: []OrderItemRequest{
			{InventoryItemID: &item.ID, RequestedQty: 4, Unit: "bag", UnitPrice: &price},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, w, &order)

	env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID), ReviewRequest{Action: "approve"})

	w = env.request(t, &env.team, "GET", "/api/v1/orders/supplier-purchase-list", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list struct {
		Suppliers []struct {
			SupplierName string `json:"supplier_name"`
		} `json:"suppliers"`
	}
	decode(t, w, &list)

	// Grouped under the catalog supplier, not "No Supplier"
	require.Len(t, list.Suppliers, 1)
	assert.Equal(t, "Sysco", list.Suppliers[0].SupplierName)
}

func TestPurchaseListStatusFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, &env.team, "GET", "/api/v1/orders/supplier-purchase-list?status=draft", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, &env.team, "GET", "/api/v1/orders/supplier-purchase-list?status=ordered", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReceiveAcrossSessionsCommitsDelta(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t) // stock 2
	order := env.createDraftOrder(t, item)

	env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	env.request(t, &env.super, "POST", fmt.Sprintf("/api/v1/orders/%d/review", order.ID), ReviewRequest{Action: "approve"})
	env.request(t, &env.team, "POST", fmt.Sprintf("/api/v1/orders/%d/mark-ordered", order.ID), nil)

	// First delivery: 2 of the 4 requested
	partial := 2.0
	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{
			Items:    []ReceiveItemRequest{{OrderItemID: order.Items[0].ID, ReceivedQty: &partial}},
			Finalize: true,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var afterFirst OrderDetail
	decode(t, w, &afterFirst)
	assert.Equal(t, string(models.OrderStatusPartiallyReceived), afterFirst.Status)

	var inv models.InventoryItem
	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 4.0, inv.CurrentStock)

	// Second delivery brings the total received to 4; only the
	// outstanding 2 move into stock
	full := 4.0
	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{
			Items:    []ReceiveItemRequest{{OrderItemID: order.Items[0].ID, ReceivedQty: &full}},
			Finalize: true,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var afterSecond OrderDetail
	decode(t, w, &afterSecond)
	assert.Equal(t, string(models.OrderStatusReceived), afterSecond.Status)

	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 6.0, inv.CurrentStock)
}

func TestReceiveFinalizeMissingInventoryItem(t *testing.T) {
	env := newTestEnv(t)

	order := models.Order{OrderNumber: "ORD-20260830-AAA111", PropertyID: env.property.ID, Status: string(models.OrderStatusOrdered)}
	require.NoError(t, env.db.Create(&order).Error)

	missing := uint(9999)
	line := models.OrderItem{OrderID: order.ID, InventoryItemID: &missing, CustomItemName: "Ghost", RequestedQty: 4}
	require.NoError(t, env.db.Create(&line).Error)

	qty := 4.0
	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/receive", order.ID),
		ReceiveRequest{
			Items:    []ReceiveItemRequest{{OrderItemID: line.ID, ReceivedQty: &qty}},
			Finalize: true,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Nothing was stocked, so nothing is recorded as committed
	var stored models.OrderItem
	require.NoError(t, env.db.Where("id = ?", line.ID).First(&stored).Error)
	assert.Zero(t, stored.StockCommitted)
	require.NotNil(t, stored.ReceivedQty)
	assert.Equal(t, 4.0, *stored.ReceivedQty)
}

func TestAutoGenerateOrder(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t) // par 10, stock 2 -> suggested 8

	w := env.request(t, &env.worker, "POST", "/api/v1/orders/auto-generate",
		AutoGenerateRequest{PropertyID: env.property.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	decode(t, w, &order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, item.ID, *order.Items[0].InventoryItemID)
	assert.Equal(t, 8.0, order.Items[0].RequestedQty)
	assert.Equal(t, string(models.FlagLowStock), order.Items[0].Flag)
}

func TestInventoryCountFinalize(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)

	w := env.request(t, &env.worker, "POST", "/api/v1/inventory/counts", CreateCountRequest{
		PropertyID: env.property.ID,
		Items:      []CountItemRequest{{InventoryItemID: item.ID, Quantity: 7}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count models.InventoryCount
	decode(t, w, &count)

	// Stock untouched until finalized
	var inv models.InventoryItem
	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 2.0, inv.CurrentStock)

	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/inventory/counts/%d/finalize", count.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, env.db.Where("id = ?", item.ID).First(&inv).Error)
	assert.Equal(t, 7.0, inv.CurrentStock)

	// Double finalize is rejected
	w = env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/inventory/counts/%d/finalize", count.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, &env.worker, "GET", "/api/v1/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, &env.admin, "GET", "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, &env.admin, "POST", "/api/v1/users", CreateUserRequest{
		Email:    "new@camp.test",
		Password: "password123",
		Role:     string(models.RolePurchasingTeam),
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestNotificationsOnSubmit(t *testing.T) {
	env := newTestEnv(t)
	_, item := env.seedInventory(t)
	order := env.createDraftOrder(t, item)

	w := env.request(t, &env.worker, "POST", fmt.Sprintf("/api/v1/orders/%d/submit", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Supervisors get notified about the submission
	w = env.request(t, &env.super, "GET", "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notifications []models.Notification
	decode(t, w, &notifications)
	require.NotEmpty(t, notifications)
	assert.Equal(t, string(models.NotificationOrderSubmitted), notifications[0].Type)

	// The worker did not notify themselves
	w = env.request(t, &env.worker, "GET", "/api/v1/notifications/unread-count", nil)
	var count struct {
		UnreadCount int64 `json:"unread_count"`
	}
	decode(t, w, &count)
	assert.Zero(t, count.UnreadCount)
}
