package workflow

import "sort"

// Sentinel group labels. Items without a supplier or category land in
// these groups, which always sort after the named ones.
const (
	NoSupplierLabel = "No Supplier"
	OtherCategory   = "Other"
)

// PurchaseItem is one order line flattened for purchase-list display,
// possibly spanning multiple orders.
type PurchaseItem struct {
	ItemID       uint     `json:"item_id"`
	ItemName     string   `json:"item_name"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`
	LineTotal    float64  `json:"line_total"`
	SupplierName string   `json:"supplier_name,omitempty"`
	Category     string   `json:"category,omitempty"`
	OrderID      uint     `json:"order_id"`
	OrderNumber  string   `json:"order_number"`
	PropertyName string   `json:"property_name,omitempty"`
}

// CategoryGroup holds the items of one category within a supplier
type CategoryGroup struct {
	Category string         `json:"category"`
	Items    []PurchaseItem `json:"items"`
}

// SupplierGroup aggregates purchase items for one supplier, sub-grouped
// by category
type SupplierGroup struct {
	SupplierID   *uint           `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name"`
	ContactName  string          `json:"contact_name,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Categories   []CategoryGroup `json:"categories"`
	TotalItems   int             `json:"total_items"`
	TotalValue   float64         `json:"total_value"`
}

// PurchaseList is the supplier-grouped view used to place orders with
// vendors
type PurchaseList struct {
	Suppliers   []SupplierGroup `json:"suppliers"`
	OrderIDs    []uint          `json:"order_ids"`
	TotalOrders int             `json:"total_orders"`
	GrandTotal  float64         `json:"grand_total"`
}

// SupplierInfo carries supplier contact details into the grouped view
type SupplierInfo struct {
	ID          uint
	ContactName string
	Email       string
	Phone       string
}

// BuildPurchaseList groups a flat item list by supplier, then by
// category within each supplier. It is a pure transform and is
// recomputed from scratch on every call:
//
//   - suppliers sort alphabetically, the "No Supplier" group last
//   - categories within a supplier sort alphabetically, "Other" last
//   - items within a category sort by display name
//   - per-supplier totals count items and sum quantity times unit
//     price, a missing price contributing zero
//
// suppliers maps supplier name to contact details and may be nil.
func BuildPurchaseList(items []PurchaseItem, suppliers map[string]SupplierInfo) PurchaseList {
	bySupplier := make(map[string]map[string][]PurchaseItem)
	orderIDs := []uint{}
	seenOrders := make(map[uint]bool)
	grandTotal := 0.0

	for _, item := range items {
		supplier := item.SupplierName
		if supplier == "" {
			supplier = NoSupplierLabel
		}
		category := item.Category
		if category == "" {
			category = OtherCategory
		}

		if item.UnitPrice != nil {
			item.LineTotal = item.Quantity * *item.UnitPrice
		} else {
			item.LineTotal = 0
		}
		grandTotal += item.LineTotal

		if bySupplier[supplier] == nil {
			bySupplier[supplier] = make(map[string][]PurchaseItem)
		}
		bySupplier[supplier][category] = append(bySupplier[supplier][category], item)

		if item.OrderID != 0 && !seenOrders[item.OrderID] {
			seenOrders[item.OrderID] = true
			orderIDs = append(orderIDs, item.OrderID)
		}
	}

	groups := make([]SupplierGroup, 0, len(bySupplier))
	for supplierName, byCategory := range bySupplier {
		group := SupplierGroup{SupplierName: supplierName}
		if info, ok := suppliers[supplierName]; ok {
			id := info.ID
			group.SupplierID = &id
			group.ContactName = info.ContactName
			group.Email = info.Email
			group.Phone = info.Phone
		}

		for categoryName, catItems := range byCategory {
			sort.SliceStable(catItems, func(a, b int) bool {
				return catItems[a].ItemName < catItems[b].ItemName
			})
			group.Categories = append(group.Categories, CategoryGroup{
				Category: categoryName,
				Items:    catItems,
			})
			group.TotalItems += len(catItems)
			for _, it := range catItems {
				group.TotalValue += it.LineTotal
			}
		}

		sort.SliceStable(group.Categories, func(a, b int) bool {
			return categoryLess(group.Categories[a].Category, group.Categories[b].Category)
		})

		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return supplierLess(groups[a].SupplierName, groups[b].SupplierName)
	})

	sort.Slice(orderIDs, func(a, b int) bool { return orderIDs[a] < orderIDs[b] })

	return PurchaseList{
		Suppliers:   groups,
		OrderIDs:    orderIDs,
		TotalOrders: len(orderIDs),
		GrandTotal:  grandTotal,
	}
}

// supplierLess sorts supplier names alphabetically with the sentinel
// "No Supplier" group always last
func supplierLess(a, b string) bool {
	if a == NoSupplierLabel {
		return false
	}
	if b == NoSupplierLabel {
		return true
	}
	return a < b
}

// categoryLess sorts category names alphabetically with "Other" always last
func categoryLess(a, b string) bool {
	if a == OtherCategory {
		return false
	}
	if b == OtherCategory {
		return true
	}
	return a < b
}
