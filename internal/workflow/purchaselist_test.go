package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func samplePurchaseItems() []PurchaseItem {
	return []PurchaseItem{
		{ItemID: 1, ItemName: "Flour", Quantity: 4, Unit: "bag", UnitPrice: fptr(12.5), SupplierName: "Sysco", Category: "Dry Goods", OrderID: 10, OrderNumber: "ORD-20260101-AAA111"},
		{ItemID: 2, ItemName: "Butter", Quantity: 2, Unit: "case", UnitPrice: fptr(40), SupplierName: "Sysco", Category: "Dairy", OrderID: 10, OrderNumber: "ORD-20260101-AAA111"},
		{ItemID: 3, ItemName: "Apples", Quantity: 3, Unit: "case", UnitPrice: fptr(30), SupplierName: "Local Farms", Category: "Produce", OrderID: 11, OrderNumber: "ORD-20260102-BBB222"},
		{ItemID: 4, ItemName: "Batteries", Quantity: 1, Unit: "pack", SupplierName: "", Category: "", OrderID: 11, OrderNumber: "ORD-20260102-BBB222"},
		{ItemID: 5, ItemName: "Yeast", Quantity: 1, Unit: "box", UnitPrice: fptr(8), SupplierName: "Sysco", Category: "", OrderID: 10, OrderNumber: "ORD-20260101-AAA111"},
	}
}

func TestBuildPurchaseListGrouping(t *testing.T) {
	list := BuildPurchaseList(samplePurchaseItems(), nil)

	assert.Len(t, list.Suppliers, 3)
	// Alphabetical with No Supplier last
	assert.Equal(t, "Local Farms", list.Suppliers[0].SupplierName)
	assert.Equal(t, "Sysco", list.Suppliers[1].SupplierName)
	assert.Equal(t, NoSupplierLabel, list.Suppliers[2].SupplierName)

	// Categories within Sysco: alphabetical with Other last
	sysco := list.Suppliers[1]
	assert.Len(t, sysco.Categories, 3)
	assert.Equal(t, "Dairy", sysco.Categories[0].Category)
	assert.Equal(t, "Dry Goods", sysco.Categories[1].Category)
	assert.Equal(t, OtherCategory, sysco.Categories[2].Category)

	// Uncategorized item without supplier lands in No Supplier / Other
	none := list.Suppliers[2]
	assert.Len(t, none.Categories, 1)
	assert.Equal(t, OtherCategory, none.Categories[0].Category)
	assert.Equal(t, "Batteries", none.Categories[0].Items[0].ItemName)
}

func TestBuildPurchaseListTotals(t *testing.T) {
	list := BuildPurchaseList(samplePurchaseItems(), nil)

	// 4*12.5 + 2*40 + 1*8 = 138 for Sysco
	sysco := list.Suppliers[1]
	assert.Equal(t, 3, sysco.TotalItems)
	assert.InDelta(t, 138.0, sysco.TotalValue, 0.001)

	// Missing price contributes zero
	assert.InDelta(t, 0.0, list.Suppliers[2].TotalValue, 0.001)

	// 138 + 90 + 0
	assert.InDelta(t, 228.0, list.GrandTotal, 0.001)

	assert.Equal(t, []uint{10, 11}, list.OrderIDs)
	assert.Equal(t, 2, list.TotalOrders)
}

func TestBuildPurchaseListIdempotent(t *testing.T) {
	first := BuildPurchaseList(samplePurchaseItems(), nil)
	second := BuildPurchaseList(samplePurchaseItems(), nil)
	assert.Equal(t, first, second)
}

func TestBuildPurchaseListContactInfo(t *testing.T) {
	contacts := map[string]SupplierInfo{
		"Sysco": {ID: 7, ContactName: "Pat", Email: "orders@sysco.example", Phone: "555-0100"},
	}
	list := BuildPurchaseList(samplePurchaseItems(), contacts)

	sysco := list.Suppliers[1]
	assert.NotNil(t, sysco.SupplierID)
	assert.Equal(t, uint(7), *sysco.SupplierID)
	assert.Equal(t, "Pat", sysco.ContactName)

	// Groups without contact info carry no supplier ID
	assert.Nil(t, list.Suppliers[0].SupplierID)
}

func TestBuildPurchaseListItemSort(t *testing.T) {
	items := []PurchaseItem{
		{ItemName: "Zucchini", SupplierName: "Sysco", Category: "Produce", Quantity: 1},
		{ItemName: "Avocado", SupplierName: "Sysco", Category: "Produce", Quantity: 1},
		{ItemName: "Mango", SupplierName: "Sysco", Category: "Produce", Quantity: 1},
	}
	list := BuildPurchaseList(items, nil)

	got := list.Suppliers[0].Categories[0].Items
	assert.Equal(t, "Avocado", got[0].ItemName)
	assert.Equal(t, "Mango", got[1].ItemName)
	assert.Equal(t, "Zucchini", got[2].ItemName)
}

func TestBuildPurchaseListEmpty(t *testing.T) {
	list := BuildPurchaseList(nil, nil)
	assert.Empty(t, list.Suppliers)
	assert.Empty(t, list.OrderIDs)
	assert.Zero(t, list.GrandTotal)
}
