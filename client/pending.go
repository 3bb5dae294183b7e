package client

import (
	"context"
	"sync"

	"campstock/internal/api"
	"campstock/internal/models"
)

// Overlay holds tentative per-item values layered over server state, so
// review screens show an edit immediately while the save is in flight.
// A successful save commits the value (the server copy now agrees); a
// failed save rolls the entry back so the display falls through to the
// server value again. Keys are order item IDs.
type Overlay[T any] struct {
	mu      sync.RWMutex
	pending map[uint]T
	saving  map[uint]bool
}

// NewOverlay returns an empty overlay
func NewOverlay[T any]() *Overlay[T] {
	return &Overlay[T]{
		pending: make(map[uint]T),
		saving:  make(map[uint]bool),
	}
}

// Set records a tentative value for an item and marks it saving
func (o *Overlay[T]) Set(id uint, value T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[id] = value
	o.saving[id] = true
}

// Pending returns the tentative value for an item, if any
func (o *Overlay[T]) Pending(id uint) (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.pending[id]
	return v, ok
}

// IsSaving reports whether a save is in flight for the item
func (o *Overlay[T]) IsSaving(id uint) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.saving[id]
}

// Commit clears the overlay entry after a successful save. The server
// copy now carries the value, so the fall-through shows it.
func (o *Overlay[T]) Commit(id uint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, id)
	delete(o.saving, id)
}

// Rollback discards the tentative value after a failed save
func (o *Overlay[T]) Rollback(id uint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, id)
	delete(o.saving, id)
}

// Len returns the number of items with tentative values
func (o *Overlay[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.pending)
}

// ReviewEdits carries the overlays a review screen needs: tentative
// approved quantities and tentative supplier reassignments, keyed
// independently.
type ReviewEdits struct {
	ApprovedQty *Overlay[float64]
	Supplier    *Overlay[uint]
}

// NewReviewEdits returns empty review overlays
func NewReviewEdits() *ReviewEdits {
	return &ReviewEdits{
		ApprovedQty: NewOverlay[float64](),
		Supplier:    NewOverlay[uint](),
	}
}

// EffectiveQty returns the quantity a review screen should display for
// an item: a pending edit wins, then the approved quantity, then the
// requested quantity.
func (e *ReviewEdits) EffectiveQty(item *models.OrderItem) float64 {
	if v, ok := e.ApprovedQty.Pending(item.ID); ok {
		return v
	}
	return item.FinalQuantity()
}

// SaveApprovedQty optimistically sets an item's approved quantity: the
// overlay shows the new value at once, the server save runs, and a
// failure rolls the overlay back so the display reverts.
func (c *Client) SaveApprovedQty(ctx context.Context, edits *ReviewEdits, orderID, itemID uint, qty float64) (*api.OrderItemDetail, error) {
	edits.ApprovedQty.Set(itemID, qty)

	item, err := c.UpdateOrderItem(ctx, orderID, itemID, api.UpdateOrderItemRequest{ApprovedQty: &qty})
	if err != nil {
		edits.ApprovedQty.Rollback(itemID)
		return nil, err
	}
	edits.ApprovedQty.Commit(itemID)
	return item, nil
}

// SaveSupplier optimistically reassigns an item's supplier with the
// same commit/rollback contract as SaveApprovedQty
func (c *Client) SaveSupplier(ctx context.Context, edits *ReviewEdits, orderID, itemID, supplierID uint) (*api.OrderItemDetail, error) {
	edits.Supplier.Set(itemID, supplierID)

	item, err := c.UpdateOrderItem(ctx, orderID, itemID, api.UpdateOrderItemRequest{SupplierID: &supplierID})
	if err != nil {
		edits.Supplier.Rollback(itemID)
		return nil, err
	}
	edits.Supplier.Commit(itemID)
	return item, nil
}
