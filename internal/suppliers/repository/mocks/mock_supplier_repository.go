package mocks

import (
	"context"

	"github.com/miboks/miboks-server/internal/suppliers/domain"
	"github.com/stretchr/testify/mock"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context, vendorID string, filter domain.ListFilter) ([]domain.Supplier, error) {
	args := m.Called(ctx, vendorID, filter)
	if s := args.Get(0); s != nil {
		return s.([]domain.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSupplierRepository) GetSupplierByID(ctx context.Context, vendorID, id string) (*domain.Supplier, error) {
	args := m.Called(ctx, vendorID, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSupplierRepository) CreateSupplier(ctx context.Context, s *domain.Supplier) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = "mock-supplier-id"
	}
	return args.Error(0)
}

func (m *MockSupplierRepository) ToggleVerified(ctx context.Context, vendorID, id string) (bool, error) {
	args := m.Called(ctx, vendorID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) DeleteSupplier(ctx context.Context, vendorID, id string) error {
	args := m.Called(ctx, vendorID, id)
	return args.Error(0)
}
