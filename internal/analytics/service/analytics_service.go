package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/miboks/miboks-server/internal/analytics/domain"
	"github.com/miboks/miboks-server/internal/analytics/repository"
)

var ErrInvalidRange = errors.New("range must be day, week or month")

type AnalyticsService interface {
	Summary(ctx context.Context, vendorID string, r domain.Range) (*domain.Summary, error)
}

type analyticsServiceImpl struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsServiceImpl{repo: repo, now: time.Now}
}

func rangeDuration(r domain.Range) time.Duration {
	switch r {
	case domain.RangeDay:
		return 24 * time.Hour
	case domain.RangeWeek:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Summary aggregates the vendor's sales over the window ending now, with a
// revenue trend against the window of the same length just before it.
func (s *analyticsServiceImpl) Summary(ctx context.Context, vendorID string, r domain.Range) (*domain.Summary, error) {
	if !domain.ValidRange(r) {
		return nil, ErrInvalidRange
	}

	to := s.now()
	from := to.Add(-rangeDuration(r))
	prevFrom := from.Add(-rangeDuration(r))

	sales, err := s.repo.SalesBetween(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}
	prevSales, err := s.repo.SalesBetween(ctx, vendorID, prevFrom, from)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ItemsBetween(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		Range:        r,
		TotalSales:   len(sales),
		RevenueByDay: revenueByDay(sales),
	}
	for _, sale := range sales {
		summary.TotalRevenue += sale.Amount
	}
	if summary.TotalSales > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.TotalSales)
	}
	summary.TopProduct = topProduct(items)
	summary.TrendPct = trendPct(summary.TotalRevenue, prevSales)
	return summary, nil
}

// topProduct picks the item with the highest quantity sold. Ties keep the
// product that was sold first.
func topProduct(items []domain.ItemRecord) *domain.TopProduct {
	totals := map[string]*domain.TopProduct{}
	order := []string{}
	for _, item := range items {
		entry, ok := totals[item.ProductID]
		if !ok {
			entry = &domain.TopProduct{ProductID: item.ProductID, Name: item.ProductName}
			totals[item.ProductID] = entry
			order = append(order, item.ProductID)
		}
		entry.Quantity += item.Quantity
	}

	var top *domain.TopProduct
	for _, id := range order {
		if top == nil || totals[id].Quantity > top.Quantity {
			top = totals[id]
		}
	}
	return top
}

// trendPct compares current revenue against the preceding window. With no
// prior revenue there is nothing to compare against, so the trend is zero.
func trendPct(current float64, prevSales []domain.SaleRecord) float64 {
	var previous float64
	for _, sale := range prevSales {
		previous += sale.Amount
	}
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func revenueByDay(sales []domain.SaleRecord) []domain.RevenuePoint {
	byDay := map[string]float64{}
	for _, sale := range sales {
		byDay[sale.CreatedAt.Format("2006-01-02")] += sale.Amount
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]domain.RevenuePoint, len(dates))
	for i, date := range dates {
		points[i] = domain.RevenuePoint{Date: date, Revenue: byDay[date]}
	}
	return points
}
