package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockProfileBootstrapper struct {
	mock.Mock
}

func (m *MockProfileBootstrapper) CreateDefaultProfile(ctx context.Context, vendorID, businessName, email string) error {
	args := m.Called(ctx, vendorID, businessName, email)
	return args.Error(0)
}
