package mocks

import (
	"context"

	"github.com/miboks/miboks-server/internal/auth/domain"
	"github.com/stretchr/testify/mock"
)

type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	args := m.Called(ctx, vendor)
	if vendor != nil && args.Error(0) == nil {
		vendor.ID = "mock-vendor-id"
	}
	return args.Error(0)
}

func (m *MockVendorRepository) GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVendorRepository) GetVendorByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Vendor, error) {
	args := m.Called(ctx, phoneNumber)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVendorRepository) GetVendorByIdentifier(ctx context.Context, identifier string) (*domain.Vendor, error) {
	args := m.Called(ctx, identifier)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}
