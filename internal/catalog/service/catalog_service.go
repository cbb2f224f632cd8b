package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/miboks/miboks-server/internal/catalog/repository"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/platform/storage"
	"go.uber.org/zap"
)

var (
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")
	ErrMissingName     = errors.New("name is required")
)

const (
	productImagesBucket = "product-images"
	lowStockThreshold   = 5
)

type CatalogService interface {
	ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, vendorID, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, vendorID string, req domain.SaveProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, vendorID, id string, req domain.SaveProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, vendorID, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, req domain.SaveCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	InventoryStats(ctx context.Context, vendorID string) (*domain.InventoryStats, error)
	UploadProductImage(ctx context.Context, fileName string, file io.Reader) (string, error)
}

type catalogServiceImpl struct {
	repo    repository.CatalogRepository
	objects storage.ObjectStorage
	hub     *events.Hub
}

func NewCatalogService(repo repository.CatalogRepository, objects storage.ObjectStorage, hub *events.Hub) CatalogService {
	return &catalogServiceImpl{repo: repo, objects: objects, hub: hub}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, vendorID)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, vendorID, id)
}

// parseProductInput turns the form's string fields into numeric ones,
// rejecting anything negative or unparseable.
func parseProductInput(req domain.SaveProductRequest) (price float64, quantity int, err error) {
	if strings.TrimSpace(req.Name) == "" {
		return 0, 0, ErrMissingName
	}
	price, err = strconv.ParseFloat(strings.TrimSpace(req.Price), 64)
	if err != nil || price < 0 {
		return 0, 0, ErrInvalidPrice
	}
	quantity, err = strconv.Atoi(strings.TrimSpace(req.Quantity))
	if err != nil || quantity < 0 {
		return 0, 0, ErrInvalidQuantity
	}
	return price, quantity, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, vendorID string, req domain.SaveProductRequest) (*domain.Product, error) {
	price, quantity, err := parseProductInput(req)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		VendorID:    vendorID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       price,
		Quantity:    quantity,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("CreateProduct: repo error", err)
		return nil, err
	}

	s.hub.Publish("products", "INSERT", p.ID)
	return p, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, vendorID, id string, req domain.SaveProductRequest) (*domain.Product, error) {
	price, quantity, err := parseProductInput(req)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetProductByID(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = price
	p.Quantity = quantity
	p.CategoryID = req.CategoryID
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		logger.Error("UpdateProduct: repo error", err, zap.String("product_id", id))
		return nil, err
	}

	s.hub.Publish("products", "UPDATE", p.ID)
	return p, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, vendorID, id string) error {
	if err := s.repo.DeleteProduct(ctx, vendorID, id); err != nil {
		return err
	}
	s.hub.Publish("products", "DELETE", id)
	return nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req domain.SaveCategoryRequest) (*domain.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	c := &domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		logger.Error("CreateCategory: repo error", err)
		return nil, err
	}
	s.hub.Publish("categories", "INSERT", c.ID)
	return c, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.hub.Publish("categories", "DELETE", id)
	return nil
}

func (s *catalogServiceImpl) InventoryStats(ctx context.Context, vendorID string) (*domain.InventoryStats, error) {
	products, err := s.repo.ListProducts(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.InventoryStats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
	}
	for _, p := range products {
		stats.TotalStockValue += p.Price * float64(p.Quantity)
		switch {
		case p.Quantity == 0:
			stats.OutOfStock++
		case p.Quantity < lowStockThreshold:
			stats.LowStock++
		}
	}
	return stats, nil
}

// UploadProductImage stores the file under a fresh name and returns its
// public URL for the product form to save.
func (s *catalogServiceImpl) UploadProductImage(ctx context.Context, fileName string, file io.Reader) (string, error) {
	objectName := uuid.NewString() + filepath.Ext(fileName)
	if err := s.objects.Upload(productImagesBucket, objectName, file); err != nil {
		logger.Error("UploadProductImage: upload failed", err, zap.String("object", objectName))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.objects.PublicURL(productImagesBucket, objectName), nil
}
