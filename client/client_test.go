package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campstock/internal/api"
	"campstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInSession(role models.UserRole) *Session {
	s := NewSession()
	s.Set("test-token", &models.User{ID: 1, Email: "u@test", Role: string(role)})
	return s
}

func TestBearerHeaderInjected(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RoleAdmin))
	_, err := c.ListSuppliers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	session := loggedInSession(models.RoleAdmin)
	c := New(srv.URL, session)

	_, err := c.ListSuppliers(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, session.LoggedIn())
	assert.Empty(t, session.Token())
}

func TestErrorDetailString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Can only delete draft orders"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RoleAdmin))
	_, err := c.ListSuppliers(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Can only delete draft orders", apiErr.Detail)
}

func TestErrorDetailValidationArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"msg":"field required"},{"msg":"value is not a valid float"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RoleAdmin))
	_, err := c.ListSuppliers(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "field required; value is not a valid float", apiErr.Detail)
}

func TestRoleGuardBlocksLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RoleCampWorker))

	_, err := c.ReviewOrder(context.Background(), 1, "approve", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = c.GetPurchaseList(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = c.GetItemTrends(context.Background(), 1)
	assert.ErrorIs(t, err, ErrForbidden)

	// Blocked client-side, never reached the server
	assert.False(t, called)
}

func TestOrderEditGuardBlocksLocally(t *testing.T) {
	var mutated bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mutated = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"status":"received","property_id":1,"items":[]}`))
	}))
	defer srv.Close()

	propertyID := uint(1)
	session := NewSession()
	session.Set("test-token", &models.User{ID: 2, Role: string(models.RoleCampWorker), PropertyID: &propertyID})
	c := New(srv.URL, session)

	// A closed-out order is not editable for anyone
	_, err := c.UpdateOrderItem(context.Background(), 1, 5, api.UpdateOrderItemRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	err = c.DeleteOrderItem(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = c.AddOrderItem(context.Background(), 1, api.OrderItemRequest{RequestedQty: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	// No mutation ever reached the server
	assert.False(t, mutated)
}

func TestOrderEditGuardOtherProperty(t *testing.T) {
	var mutated bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mutated = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"status":"draft","property_id":2,"items":[]}`))
	}))
	defer srv.Close()

	// Camp worker assigned to property 1, order belongs to property 2
	propertyID := uint(1)
	session := NewSession()
	session.Set("test-token", &models.User{ID: 2, Role: string(models.RoleCampWorker), PropertyID: &propertyID})
	c := New(srv.URL, session)

	_, err := c.AddOrderItem(context.Background(), 1, api.OrderItemRequest{RequestedQty: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, mutated)
}

func TestCanEditOrder(t *testing.T) {
	propertyID := uint(1)
	worker := NewSession()
	worker.Set("t", &models.User{ID: 2, Role: string(models.RoleCampWorker), PropertyID: &propertyID})

	own := &models.Order{PropertyID: 1, Status: string(models.OrderStatusDraft)}
	assert.True(t, worker.CanEditOrder(own))

	own.Status = string(models.OrderStatusChangesRequested)
	assert.True(t, worker.CanEditOrder(own))

	own.Status = string(models.OrderStatusSubmitted)
	assert.False(t, worker.CanEditOrder(own))

	foreign := &models.Order{PropertyID: 2, Status: string(models.OrderStatusDraft)}
	assert.False(t, worker.CanEditOrder(foreign))

	admin := loggedInSession(models.RoleAdmin)
	assert.True(t, admin.CanEditOrder(foreign))

	assert.False(t, NewSession().CanEditOrder(own))
}

func TestRoleGuardNotLoggedIn(t *testing.T) {
	c := New("http://unused", NewSession())
	_, err := c.ReviewOrder(context.Background(), 1, "approve", "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSaveApprovedQtyCommit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"id":1,"status":"under_review","property_id":1,"items":[]}`))
			return
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                 5,
			"approved_quantity":  req["approved_quantity"],
			"requested_quantity": 10,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RolePurchasingSupervisor))
	edits := NewReviewEdits()

	item, err := c.SaveApprovedQty(context.Background(), edits, 1, 5, 3.5)
	require.NoError(t, err)
	require.NotNil(t, item.ApprovedQty)
	assert.Equal(t, 3.5, *item.ApprovedQty)

	// Committed: overlay is empty again, display falls through to server value
	_, pending := edits.ApprovedQty.Pending(5)
	assert.False(t, pending)
	assert.False(t, edits.ApprovedQty.IsSaving(5))
}

func TestSaveApprovedQtyRollbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":1,"status":"under_review","property_id":1,"items":[]}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Approved quantity cannot be negative"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInSession(models.RolePurchasingSupervisor))
	edits := NewReviewEdits()

	_, err := c.SaveApprovedQty(context.Background(), edits, 1, 5, 3.5)
	require.Error(t, err)

	// Rolled back: the tentative value is gone
	_, pending := edits.ApprovedQty.Pending(5)
	assert.False(t, pending)
	assert.False(t, edits.ApprovedQty.IsSaving(5))

	// And the displayed quantity reverts to the server state
	approved := 8.0
	item := &models.OrderItem{ID: 5, RequestedQty: 10, ApprovedQty: &approved}
	assert.Equal(t, 8.0, edits.EffectiveQty(item))
}

func TestEffectiveQtyPrecedence(t *testing.T) {
	edits := NewReviewEdits()
	approved := 8.0
	item := &models.OrderItem{ID: 5, RequestedQty: 10, ApprovedQty: &approved}

	// approved > requested
	assert.Equal(t, 8.0, edits.EffectiveQty(item))

	// pending > approved
	edits.ApprovedQty.Set(5, 6)
	assert.Equal(t, 6.0, edits.EffectiveQty(item))

	// no approval: falls back to requested
	item.ApprovedQty = nil
	edits.ApprovedQty.Rollback(5)
	assert.Equal(t, 10.0, edits.EffectiveQty(item))
}

func TestSupplierOverlayIndependent(t *testing.T) {
	edits := NewReviewEdits()
	edits.ApprovedQty.Set(5, 3)
	edits.Supplier.Set(5, 9)

	edits.ApprovedQty.Rollback(5)

	// Supplier overlay unaffected by the quantity rollback
	supplier, ok := edits.Supplier.Pending(5)
	assert.True(t, ok)
	assert.Equal(t, uint(9), supplier)
	assert.Equal(t, 1, edits.Supplier.Len())
	assert.Equal(t, 0, edits.ApprovedQty.Len())
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/login":
			assert.Equal(t, "worker@camp.test", r.FormValue("username"))
			json.NewEncoder(w).Encode(TokenResponse{AccessToken: "issued-token", TokenType: "bearer"})
		case "/api/v1/auth/me":
			assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(models.User{ID: 7, Email: "worker@camp.test", Role: string(models.RoleCampWorker)})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	user, err := c.Login(context.Background(), "worker@camp.test", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.True(t, c.Session().LoggedIn())
	assert.Equal(t, "issued-token", c.Session().Token())

	c.Logout()
	assert.False(t, c.Session().LoggedIn())
}
