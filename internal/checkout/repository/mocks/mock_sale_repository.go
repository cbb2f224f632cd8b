package mocks

import (
	"context"
	"time"

	"github.com/miboks/miboks-server/internal/checkout/domain"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSaleWithItems(ctx context.Context, sale *domain.Sale, schedule []domain.SaleInstallment) error {
	args := m.Called(ctx, sale, schedule)
	return args.Error(0)
}

func (m *MockSaleRepository) ListSalesByVendor(ctx context.Context, vendorID string) ([]domain.Sale, error) {
	args := m.Called(ctx, vendorID)
	if s := args.Get(0); s != nil {
		return s.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) GetSaleByID(ctx context.Context, vendorID, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, vendorID, saleID)
	if s := args.Get(0); s != nil {
		return s.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) ListInstallmentsBySale(ctx context.Context, saleID string) ([]domain.SaleInstallment, error) {
	args := m.Called(ctx, saleID)
	if i := args.Get(0); i != nil {
		return i.([]domain.SaleInstallment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) MarkInstallmentPaid(ctx context.Context, saleID string, seq int) error {
	args := m.Called(ctx, saleID, seq)
	return args.Error(0)
}

func (m *MockSaleRepository) MarkOverdueInstallments(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
