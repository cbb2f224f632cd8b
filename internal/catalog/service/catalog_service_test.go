package service

import (
	"context"
	"strings"
	"testing"

	"github.com/miboks/miboks-server/internal/catalog/domain"
	repoMocks "github.com/miboks/miboks-server/internal/catalog/repository/mocks"
	svcMocks "github.com/miboks/miboks-server/internal/catalog/service/mocks"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Valid input parses numeric strings and publishes event", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCatalogRepository)
		hub := events.NewHub()
		ch, unsubscribe := hub.Subscribe("products")
		defer unsubscribe()

		catalogService := NewCatalogService(mockRepo, nil, hub)
		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

		p, err := catalogService.CreateProduct(ctx, "vendor-1", domain.SaveProductRequest{
			Name:     "  Palm Oil 1L ",
			Price:    "1500.50",
			Quantity: "20",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Palm Oil 1L", p.Name)
		assert.Equal(t, 1500.50, p.Price)
		assert.Equal(t, 20, p.Quantity)
		assert.Equal(t, "vendor-1", p.VendorID)

		change := <-ch
		assert.Equal(t, "INSERT", change.Action)
		assert.Equal(t, "mock-product-id", change.RecordID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejects negative price", func(t *testing.T) {
		catalogService := NewCatalogService(new(repoMocks.MockCatalogRepository), nil, events.NewHub())

		_, err := catalogService.CreateProduct(ctx, "vendor-1", domain.SaveProductRequest{
			Name: "Soap", Price: "-3", Quantity: "1",
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("Rejects unparseable or negative quantity", func(t *testing.T) {
		catalogService := NewCatalogService(new(repoMocks.MockCatalogRepository), nil, events.NewHub())

		_, err := catalogService.CreateProduct(ctx, "vendor-1", domain.SaveProductRequest{
			Name: "Soap", Price: "100", Quantity: "two",
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = catalogService.CreateProduct(ctx, "vendor-1", domain.SaveProductRequest{
			Name: "Soap", Price: "100", Quantity: "-1",
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Rejects blank name", func(t *testing.T) {
		catalogService := NewCatalogService(new(repoMocks.MockCatalogRepository), nil, events.NewHub())

		_, err := catalogService.CreateProduct(ctx, "vendor-1", domain.SaveProductRequest{
			Name: "   ", Price: "100", Quantity: "1",
		})
		assert.ErrorIs(t, err, ErrMissingName)
	})
}

func TestCatalogService_InventoryStats(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(repoMocks.MockCatalogRepository)
	catalogService := NewCatalogService(mockRepo, nil, events.NewHub())

	mockRepo.On("ListProducts", ctx, "vendor-1").Return([]domain.Product{
		{ID: "p1", Price: 100, Quantity: 10},
		{ID: "p2", Price: 50, Quantity: 2}, // low stock
		{ID: "p3", Price: 20, Quantity: 0}, // out of stock
	}, nil).Once()
	mockRepo.On("ListCategories", ctx).Return([]domain.Category{{ID: "c1"}}, nil).Once()

	stats, err := catalogService.InventoryStats(ctx, "vendor-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalCategories)
	assert.Equal(t, 100*10.0+50*2.0, stats.TotalStockValue)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 1, stats.OutOfStock)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_UploadProductImage(t *testing.T) {
	ctx := context.TODO()
	mockObjects := new(svcMocks.MockObjectStorage)
	catalogService := NewCatalogService(new(repoMocks.MockCatalogRepository), mockObjects, events.NewHub())

	var storedName string
	mockObjects.On("Upload", "product-images", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { storedName = args.String(1) }).
		Return(nil).Once()
	mockObjects.On("PublicURL", "product-images", mock.AnythingOfType("string")).
		Return("https://cdn.miboks.app/product-images/object.png").Once()

	url, err := catalogService.UploadProductImage(ctx, "photo.png", strings.NewReader("bytes"))

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.miboks.app/product-images/object.png", url)
	assert.True(t, strings.HasSuffix(storedName, ".png"), "object name keeps the original extension")
	mockObjects.AssertExpectations(t)
}
