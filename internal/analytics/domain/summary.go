package domain

import "time"

// Range selects the reporting window for a summary.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

func ValidRange(r Range) bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth:
		return true
	}
	return false
}

// SaleRecord is the slice of a sale the aggregations need.
type SaleRecord struct {
	ID        string    `db:"id"`
	Amount    float64   `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

// ItemRecord is one sold line joined with its product name.
type ItemRecord struct {
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
}

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// Summary is the dashboard payload for one reporting window.
type Summary struct {
	Range             Range          `json:"range"`
	TotalSales        int            `json:"total_sales"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	TopProduct        *TopProduct    `json:"top_product,omitempty"`
	TrendPct          float64        `json:"trend_pct"`
	RevenueByDay      []RevenuePoint `json:"revenue_by_day"`
}
