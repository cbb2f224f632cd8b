package mocks

import (
	"context"

	"github.com/miboks/miboks-server/internal/settings/domain"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) CreateProfile(ctx context.Context, profile *domain.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	args := m.Called(ctx, vendorID)
	if p := args.Get(0); p != nil {
		return p.(*domain.VendorProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsRepository) UpdateProfile(ctx context.Context, profile *domain.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetLogoURL(ctx context.Context, vendorID, url string) error {
	args := m.Called(ctx, vendorID, url)
	return args.Error(0)
}

func (m *MockSettingsRepository) ListPaymentMethods(ctx context.Context, vendorID string) ([]domain.PaymentMethodPref, error) {
	args := m.Called(ctx, vendorID)
	if p := args.Get(0); p != nil {
		return p.([]domain.PaymentMethodPref), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsRepository) AddPaymentMethod(ctx context.Context, pref *domain.PaymentMethodPref) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockSettingsRepository) DeletePaymentMethod(ctx context.Context, vendorID, id string) error {
	args := m.Called(ctx, vendorID, id)
	return args.Error(0)
}
