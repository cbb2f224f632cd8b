package mocks

import (
	"context"

	"github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error) {
	args := m.Called(ctx, vendorID)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	args := m.Called(ctx, vendorID, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	if p != nil && args.Error(0) == nil {
		p.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, vendorID, id string) error {
	args := m.Called(ctx, vendorID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	if c != nil && args.Error(0) == nil {
		c.ID = "mock-category-id"
	}
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
