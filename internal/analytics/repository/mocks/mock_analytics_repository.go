package mocks

import (
	"context"
	"time"

	"github.com/miboks/miboks-server/internal/analytics/domain"
	"github.com/stretchr/testify/mock"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) SalesBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.SaleRecord, error) {
	args := m.Called(ctx, vendorID, from, to)
	if s := args.Get(0); s != nil {
		return s.([]domain.SaleRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalyticsRepository) ItemsBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.ItemRecord, error) {
	args := m.Called(ctx, vendorID, from, to)
	if i := args.Get(0); i != nil {
		return i.([]domain.ItemRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
