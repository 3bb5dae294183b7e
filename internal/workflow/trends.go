package workflow

import (
	"sort"
	"strings"
	"time"
)

// DateFormat is the day-granularity key used for trend points
const DateFormat = "2006-01-02"

// StockPoint is one inventory count observation for an item
type StockPoint struct {
	Date     time.Time
	Quantity float64
}

// OrderPoint is one order observation for an item: the quantities the
// item carried on a single order
type OrderPoint struct {
	Date        time.Time
	OrderNumber string
	Requested   float64
	Approved    *float64
	Received    *float64
}

// TrendPoint is one merged point in the chronological item series.
// Stock and order fields coexist when both series have the same date.
type TrendPoint struct {
	Date         string   `json:"date"`
	Stock        *float64 `json:"stock,omitempty"`
	Requested    *float64 `json:"requested,omitempty"`
	Approved     *float64 `json:"approved,omitempty"`
	Received     *float64 `json:"received,omitempty"`
	OrderNumbers string   `json:"order_numbers,omitempty"`
}

// MergeTrends merges stock-count and order observations into a single
// series keyed by calendar date. Orders landing on the same day have
// their quantities summed and order numbers concatenated. The result is
// sorted ascending by date string.
func MergeTrends(stock []StockPoint, orders []OrderPoint) []TrendPoint {
	points := make(map[string]*TrendPoint)

	at := func(date string) *TrendPoint {
		p, ok := points[date]
		if !ok {
			p = &TrendPoint{Date: date}
			points[date] = p
		}
		return p
	}

	for _, s := range stock {
		p := at(s.Date.Format(DateFormat))
		qty := s.Quantity
		if p.Stock != nil {
			qty += *p.Stock
		}
		p.Stock = &qty
	}

	for _, o := range orders {
		p := at(o.Date.Format(DateFormat))
		addTo(&p.Requested, o.Requested)
		if o.Approved != nil {
			addTo(&p.Approved, *o.Approved)
		}
		if o.Received != nil {
			addTo(&p.Received, *o.Received)
		}
		if o.OrderNumber != "" {
			if p.OrderNumbers == "" {
				p.OrderNumbers = o.OrderNumber
			} else if !strings.Contains(p.OrderNumbers, o.OrderNumber) {
				p.OrderNumbers += ", " + o.OrderNumber
			}
		}
	}

	merged := make([]TrendPoint, 0, len(points))
	for _, p := range points {
		merged = append(merged, *p)
	}
	sort.Slice(merged, func(a, b int) bool { return merged[a].Date < merged[b].Date })
	return merged
}

func addTo(field **float64, value float64) {
	if *field == nil {
		v := value
		*field = &v
		return
	}
	**field += value
}
