package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, _ := time.Parse(DateFormat, s)
	return d
}

func TestMergeTrendsSameDay(t *testing.T) {
	stock := []StockPoint{
		{Date: day("2024-03-01"), Quantity: 20},
	}
	orders := []OrderPoint{
		{Date: day("2024-03-01"), OrderNumber: "ORD-20240301-AAA111", Requested: 5},
		{Date: day("2024-03-01"), OrderNumber: "ORD-20240301-BBB222", Requested: 8},
	}

	merged := MergeTrends(stock, orders)
	assert.Len(t, merged, 1)

	p := merged[0]
	assert.Equal(t, "2024-03-01", p.Date)
	assert.Equal(t, 20.0, *p.Stock)
	assert.Equal(t, 13.0, *p.Requested)
	assert.Equal(t, "ORD-20240301-AAA111, ORD-20240301-BBB222", p.OrderNumbers)
}

func TestMergeTrendsSortedAscending(t *testing.T) {
	stock := []StockPoint{
		{Date: day("2024-03-15"), Quantity: 12},
		{Date: day("2024-02-01"), Quantity: 30},
	}
	orders := []OrderPoint{
		{Date: day("2024-03-02"), OrderNumber: "ORD-1", Requested: 4},
	}

	merged := MergeTrends(stock, orders)
	assert.Len(t, merged, 3)
	assert.Equal(t, "2024-02-01", merged[0].Date)
	assert.Equal(t, "2024-03-02", merged[1].Date)
	assert.Equal(t, "2024-03-15", merged[2].Date)
}

func TestMergeTrendsDisjointFields(t *testing.T) {
	merged := MergeTrends(
		[]StockPoint{{Date: day("2024-01-10"), Quantity: 7}},
		[]OrderPoint{{Date: day("2024-01-20"), OrderNumber: "ORD-2", Requested: 3}},
	)
	assert.Len(t, merged, 2)

	// Stock-only point carries no order fields
	assert.NotNil(t, merged[0].Stock)
	assert.Nil(t, merged[0].Requested)
	assert.Empty(t, merged[0].OrderNumbers)

	// Order-only point carries no stock
	assert.Nil(t, merged[1].Stock)
	assert.Equal(t, 3.0, *merged[1].Requested)
}

func TestMergeTrendsApprovedReceived(t *testing.T) {
	approved := 4.0
	received := 3.5
	merged := MergeTrends(nil, []OrderPoint{
		{Date: day("2024-05-05"), OrderNumber: "ORD-3", Requested: 5, Approved: &approved, Received: &received},
		{Date: day("2024-05-05"), OrderNumber: "ORD-4", Requested: 2, Approved: &approved},
	})

	assert.Len(t, merged, 1)
	p := merged[0]
	assert.Equal(t, 7.0, *p.Requested)
	assert.Equal(t, 8.0, *p.Approved)
	assert.Equal(t, 3.5, *p.Received)
}

func TestMergeTrendsEmpty(t *testing.T) {
	assert.Empty(t, MergeTrends(nil, nil))
}
