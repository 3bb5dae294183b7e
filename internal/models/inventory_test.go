package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestIsLowStock(t *testing.T) {
	// OrderAt takes precedence over ParLevel as the threshold
	item := InventoryItem{ParLevel: f(10), OrderAt: f(4), CurrentStock: 5}
	assert.False(t, item.IsLowStock())

	item.CurrentStock = 4
	assert.True(t, item.IsLowStock())

	// Falls back to par level when no explicit threshold
	item = InventoryItem{ParLevel: f(10), CurrentStock: 10}
	assert.True(t, item.IsLowStock())

	// No thresholds configured means never low
	item = InventoryItem{CurrentStock: 0}
	assert.False(t, item.IsLowStock())
}

func TestSuggestedOrderQty(t *testing.T) {
	// Above threshold: nothing suggested
	item := InventoryItem{ParLevel: f(10), CurrentStock: 12, UnitsPerOrder: 1}
	assert.Equal(t, 0.0, item.SuggestedOrderQty())

	// Needs 8 units, 6 per case, rounds up to 2 cases
	item = InventoryItem{ParLevel: f(10), CurrentStock: 2, UnitsPerOrder: 6}
	assert.Equal(t, 2.0, item.SuggestedOrderQty())

	// Weekly usage added on top of the par gap
	item = InventoryItem{ParLevel: f(10), CurrentStock: 2, AvgWeeklyUsage: f(4), UnitsPerOrder: 6}
	assert.Equal(t, 2.0, item.SuggestedOrderQty())

	// Zero units-per-order treated as one
	item = InventoryItem{ParLevel: f(3), CurrentStock: 0, UnitsPerOrder: 0}
	assert.Equal(t, 3.0, item.SuggestedOrderQty())
}

func TestEffectiveOrderUnit(t *testing.T) {
	item := InventoryItem{Unit: "each", OrderUnit: "case"}
	assert.Equal(t, "case", item.EffectiveOrderUnit())

	item.OrderUnit = ""
	assert.Equal(t, "each", item.EffectiveOrderUnit())
}

func TestOrderItemFinalQuantity(t *testing.T) {
	item := OrderItem{RequestedQty: 5}
	assert.Equal(t, 5.0, item.FinalQuantity())

	item.ApprovedQty = f(3)
	assert.Equal(t, 3.0, item.FinalQuantity())

	// Explicit zero approval means zero, not a fallback
	item.ApprovedQty = f(0)
	assert.Equal(t, 0.0, item.FinalQuantity())
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{RequestedQty: 4, UnitPrice: f(2.5)}
	assert.Equal(t, 10.0, item.LineTotal())

	item.ApprovedQty = f(2)
	assert.Equal(t, 5.0, item.LineTotal())

	item.UnitPrice = nil
	assert.Equal(t, 0.0, item.LineTotal())
}

func TestOrderItemDisplayName(t *testing.T) {
	item := OrderItem{InventoryItem: &InventoryItem{Name: "Flour"}}
	assert.Equal(t, "Flour", item.DisplayName())

	item = OrderItem{CustomItemName: "Odd Part"}
	assert.Equal(t, "Odd Part", item.DisplayName())

	item = OrderItem{}
	assert.Equal(t, "Custom Item", item.DisplayName())
}

func TestOrderEstimateTotal(t *testing.T) {
	order := Order{Items: []OrderItem{
		{RequestedQty: 2, UnitPrice: f(10)},
		{RequestedQty: 3, ApprovedQty: f(1), UnitPrice: f(4)},
		{RequestedQty: 5},
	}}
	assert.Equal(t, 24.0, order.EstimateTotal())
}
