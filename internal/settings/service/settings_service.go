package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/platform/storage"
	"github.com/miboks/miboks-server/internal/settings/domain"
	"github.com/miboks/miboks-server/internal/settings/repository"
	"go.uber.org/zap"
)

var (
	ErrMissingBusinessName = errors.New("business name is required")
	ErrMissingEmail        = errors.New("email is required")
)

const businessLogosBucket = "business-logos"

type SettingsService interface {
	// CreateDefaultProfile seeds a profile row at registration time.
	CreateDefaultProfile(ctx context.Context, vendorID, businessName, email string) error

	GetProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error)
	UpdateProfile(ctx context.Context, vendorID string, req domain.UpdateProfileRequest) (*domain.VendorProfile, error)
	UploadLogo(ctx context.Context, vendorID, fileName string, file io.Reader) (string, error)

	ListPaymentMethods(ctx context.Context, vendorID string) ([]domain.PaymentMethodPref, error)
	AddPaymentMethod(ctx context.Context, vendorID string, req domain.AddPaymentMethodRequest) (*domain.PaymentMethodPref, error)
	DeletePaymentMethod(ctx context.Context, vendorID, id string) error
}

type settingsServiceImpl struct {
	repo    repository.SettingsRepository
	objects storage.ObjectStorage
	hub     *events.Hub
}

func NewSettingsService(repo repository.SettingsRepository, objects storage.ObjectStorage, hub *events.Hub) SettingsService {
	return &settingsServiceImpl{repo: repo, objects: objects, hub: hub}
}

func (s *settingsServiceImpl) CreateDefaultProfile(ctx context.Context, vendorID, businessName, email string) error {
	profile := &domain.VendorProfile{
		VendorID:       vendorID,
		BusinessName:   businessName,
		Email:          email,
		OrderAlerts:    true,
		LowStockAlerts: true,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return err
	}
	logger.Info("default vendor profile created", zap.String("vendor_id", vendorID))
	return nil
}

func (s *settingsServiceImpl) GetProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	return s.repo.GetProfile(ctx, vendorID)
}

func (s *settingsServiceImpl) UpdateProfile(ctx context.Context, vendorID string, req domain.UpdateProfileRequest) (*domain.VendorProfile, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, ErrMissingBusinessName
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrMissingEmail
	}

	profile := &domain.VendorProfile{
		VendorID:       vendorID,
		BusinessName:   strings.TrimSpace(req.BusinessName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Address:        req.Address,
		BusinessType:   req.BusinessType,
		Description:    req.Description,
		OrderAlerts:    req.OrderAlerts,
		LowStockAlerts: req.LowStockAlerts,
	}
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.hub.Publish("profiles", "UPDATE", vendorID)
	return s.repo.GetProfile(ctx, vendorID)
}

func (s *settingsServiceImpl) UploadLogo(ctx context.Context, vendorID, fileName string, file io.Reader) (string, error) {
	objectName := uuid.NewString() + filepath.Ext(fileName)
	if err := s.objects.Upload(businessLogosBucket, objectName, file); err != nil {
		logger.Error("UploadLogo: storage upload failed", err, zap.String("vendor_id", vendorID))
		return "", err
	}

	url := s.objects.PublicURL(businessLogosBucket, objectName)
	if err := s.repo.SetLogoURL(ctx, vendorID, url); err != nil {
		// The profile row is the source of truth; drop the orphaned object.
		if removeErr := s.objects.Remove(businessLogosBucket, objectName); removeErr != nil {
			logger.Error("UploadLogo: failed to remove orphaned logo", removeErr)
		}
		return "", err
	}

	s.hub.Publish("profiles", "UPDATE", vendorID)
	return url, nil
}

func (s *settingsServiceImpl) ListPaymentMethods(ctx context.Context, vendorID string) ([]domain.PaymentMethodPref, error) {
	return s.repo.ListPaymentMethods(ctx, vendorID)
}

func (s *settingsServiceImpl) AddPaymentMethod(ctx context.Context, vendorID string, req domain.AddPaymentMethodRequest) (*domain.PaymentMethodPref, error) {
	existing, err := s.repo.ListPaymentMethods(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	pref := &domain.PaymentMethodPref{
		ID:       uuid.NewString(),
		VendorID: vendorID,
		Type:     req.Type,
		Details:  req.Details,
		// The first configured method becomes the default.
		IsDefault: len(existing) == 0,
	}
	if err := s.repo.AddPaymentMethod(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *settingsServiceImpl) DeletePaymentMethod(ctx context.Context, vendorID, id string) error {
	return s.repo.DeletePaymentMethod(ctx, vendorID, id)
}
