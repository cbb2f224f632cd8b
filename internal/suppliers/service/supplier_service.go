package service

import (
	"context"
	"errors"
	"strings"

	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/suppliers/domain"
	"github.com/miboks/miboks-server/internal/suppliers/repository"
	"go.uber.org/zap"
)

var (
	ErrMissingName         = errors.New("supplier name is required")
	ErrMissingBusinessType = errors.New("business type is required")
)

type SupplierService interface {
	ListSuppliers(ctx context.Context, vendorID string, filter domain.ListFilter) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, vendorID, id string) (*domain.Supplier, error)
	CreateSupplier(ctx context.Context, vendorID string, req domain.SaveSupplierRequest) (*domain.Supplier, error)
	ToggleVerified(ctx context.Context, vendorID, id string) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, vendorID, id string) error
}

type supplierServiceImpl struct {
	repo repository.SupplierRepository
	hub  *events.Hub
}

func NewSupplierService(repo repository.SupplierRepository, hub *events.Hub) SupplierService {
	return &supplierServiceImpl{repo: repo, hub: hub}
}

func (s *supplierServiceImpl) ListSuppliers(ctx context.Context, vendorID string, filter domain.ListFilter) ([]domain.Supplier, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.ListSuppliers(ctx, vendorID, filter)
}

func (s *supplierServiceImpl) GetSupplier(ctx context.Context, vendorID, id string) (*domain.Supplier, error) {
	return s.repo.GetSupplierByID(ctx, vendorID, id)
}

func (s *supplierServiceImpl) CreateSupplier(ctx context.Context, vendorID string, req domain.SaveSupplierRequest) (*domain.Supplier, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	if strings.TrimSpace(req.BusinessType) == "" {
		return nil, ErrMissingBusinessType
	}

	supplier := &domain.Supplier{
		VendorID:      vendorID,
		Name:          strings.TrimSpace(req.Name),
		BusinessType:  strings.TrimSpace(req.BusinessType),
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		// New suppliers start unverified; verification is an explicit action.
		IsVerified: false,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		logger.Error("CreateSupplier: repo error", err)
		return nil, err
	}

	s.hub.Publish("suppliers", "INSERT", supplier.ID)
	return supplier, nil
}

func (s *supplierServiceImpl) ToggleVerified(ctx context.Context, vendorID, id string) (*domain.Supplier, error) {
	verified, err := s.repo.ToggleVerified(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	s.hub.Publish("suppliers", "UPDATE", id)
	logger.Info("supplier verification toggled",
		zap.String("supplier_id", id),
		zap.Bool("is_verified", verified))
	return s.repo.GetSupplierByID(ctx, vendorID, id)
}

func (s *supplierServiceImpl) DeleteSupplier(ctx context.Context, vendorID, id string) error {
	if err := s.repo.DeleteSupplier(ctx, vendorID, id); err != nil {
		return err
	}
	s.hub.Publish("suppliers", "DELETE", id)
	return nil
}
