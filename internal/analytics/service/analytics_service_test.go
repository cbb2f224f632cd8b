package service

import (
	"context"
	"testing"
	"time"

	"github.com/miboks/miboks-server/internal/analytics/domain"
	"github.com/miboks/miboks-server/internal/analytics/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func newFixedService(repo *mocks.MockAnalyticsRepository) AnalyticsService {
	return &analyticsServiceImpl{repo: repo, now: fixedNow}
}

func TestSummary_InvalidRange(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepository)
	svc := newFixedService(repo)

	_, err := svc.Summary(context.Background(), "vendor-1", "year")
	assert.ErrorIs(t, err, ErrInvalidRange)
	repo.AssertNotCalled(t, "SalesBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSummary_WindowBounds(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepository)
	svc := newFixedService(repo)

	to := fixedNow()
	from := to.Add(-7 * 24 * time.Hour)
	prevFrom := from.Add(-7 * 24 * time.Hour)

	repo.On("SalesBetween", mock.Anything, "vendor-1", from, to).Return([]domain.SaleRecord{}, nil)
	repo.On("SalesBetween", mock.Anything, "vendor-1", prevFrom, from).Return([]domain.SaleRecord{}, nil)
	repo.On("ItemsBetween", mock.Anything, "vendor-1", from, to).Return([]domain.ItemRecord{}, nil)

	_, err := svc.Summary(context.Background(), "vendor-1", domain.RangeWeek)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSummary_EmptyWindow(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepository)
	svc := newFixedService(repo)

	repo.On("SalesBetween", mock.Anything, "vendor-1", mock.Anything, mock.Anything).Return([]domain.SaleRecord{}, nil)
	repo.On("ItemsBetween", mock.Anything, "vendor-1", mock.Anything, mock.Anything).Return([]domain.ItemRecord{}, nil)

	summary, err := svc.Summary(context.Background(), "vendor-1", domain.RangeDay)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.TotalSales)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.AverageOrderValue)
	assert.Zero(t, summary.TrendPct)
	assert.Nil(t, summary.TopProduct)
	assert.Empty(t, summary.RevenueByDay)
}

func TestSummary_Aggregates(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepository)
	svc := newFixedService(repo)

	to := fixedNow()
	from := to.Add(-30 * 24 * time.Hour)
	prevFrom := from.Add(-30 * 24 * time.Hour)

	current := []domain.SaleRecord{
		{ID: "s1", Amount: 100, CreatedAt: to.Add(-48 * time.Hour)},
		{ID: "s2", Amount: 200, CreatedAt: to.Add(-24 * time.Hour)},
		{ID: "s3", Amount: 300, CreatedAt: to.Add(-24 * time.Hour)},
	}
	previous := []domain.SaleRecord{
		{ID: "s0", Amount: 400, CreatedAt: from.Add(-time.Hour)},
	}
	items := []domain.ItemRecord{
		{ProductID: "p1", ProductName: "Soap", Quantity: 2},
		{ProductID: "p2", ProductName: "Oil", Quantity: 5},
		{ProductID: "p1", ProductName: "Soap", Quantity: 1},
	}

	repo.On("SalesBetween", mock.Anything, "vendor-1", from, to).Return(current, nil)
	repo.On("SalesBetween", mock.Anything, "vendor-1", prevFrom, from).Return(previous, nil)
	repo.On("ItemsBetween", mock.Anything, "vendor-1", from, to).Return(items, nil)

	summary, err := svc.Summary(context.Background(), "vendor-1", domain.RangeMonth)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSales)
	assert.Equal(t, 600.0, summary.TotalRevenue)
	assert.Equal(t, 200.0, summary.AverageOrderValue)

	// 600 now vs 400 before is a 50% lift.
	assert.Equal(t, 50.0, summary.TrendPct)

	assert.NotNil(t, summary.TopProduct)
	assert.Equal(t, "p2", summary.TopProduct.ProductID)
	assert.Equal(t, 5, summary.TopProduct.Quantity)

	// Two days of revenue, oldest first.
	assert.Equal(t, []domain.RevenuePoint{
		{Date: "2025-06-13", Revenue: 100},
		{Date: "2025-06-14", Revenue: 500},
	}, summary.RevenueByDay)
}

func TestSummary_TrendZeroWithoutPriorRevenue(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepository)
	svc := newFixedService(repo)

	to := fixedNow()
	from := to.Add(-24 * time.Hour)
	prevFrom := from.Add(-24 * time.Hour)

	repo.On("SalesBetween", mock.Anything, "vendor-1", from, to).
		Return([]domain.SaleRecord{{ID: "s1", Amount: 50, CreatedAt: to.Add(-time.Hour)}}, nil)
	repo.On("SalesBetween", mock.Anything, "vendor-1", prevFrom, from).Return([]domain.SaleRecord{}, nil)
	repo.On("ItemsBetween", mock.Anything, "vendor-1", from, to).Return([]domain.ItemRecord{}, nil)

	summary, err := svc.Summary(context.Background(), "vendor-1", domain.RangeDay)
	assert.NoError(t, err)
	assert.Zero(t, summary.TrendPct)
}

func TestTopProduct_TieKeepsFirstSold(t *testing.T) {
	items := []domain.ItemRecord{
		{ProductID: "p1", ProductName: "Soap", Quantity: 3},
		{ProductID: "p2", ProductName: "Oil", Quantity: 3},
	}
	top := topProduct(items)
	assert.Equal(t, "p1", top.ProductID)
}
