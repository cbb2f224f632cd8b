package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/settings/domain"
)

var (
	ErrProfileNotFound       = errors.New("vendor profile not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)

type SettingsRepository interface {
	CreateProfile(ctx context.Context, profile *domain.VendorProfile) error
	GetProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.VendorProfile) error
	SetLogoURL(ctx context.Context, vendorID, url string) error

	ListPaymentMethods(ctx context.Context, vendorID string) ([]domain.PaymentMethodPref, error)
	AddPaymentMethod(ctx context.Context, pref *domain.PaymentMethodPref) error
	DeletePaymentMethod(ctx context.Context, vendorID, id string) error
}

type postgresSettingsRepository struct {
	db *sqlx.DB
}

func NewPostgresSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) CreateProfile(ctx context.Context, profile *domain.VendorProfile) error {
	// Registration retries must not fail on an existing row.
	query := `INSERT INTO vendor_profiles (vendor_id, business_name, email, order_alerts, low_stock_alerts, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
              ON CONFLICT (vendor_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		profile.VendorID, profile.BusinessName, profile.Email, profile.OrderAlerts, profile.LowStockAlerts)
	if err != nil {
		logger.Error("CreateProfile: insert failed", err)
		return err
	}
	return nil
}

func (r *postgresSettingsRepository) GetProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	query := `SELECT vendor_id, business_name, email, phone, address, business_type, description, logo_url,
                     order_alerts, low_stock_alerts, created_at, updated_at
              FROM vendor_profiles WHERE vendor_id = $1`

	var profile domain.VendorProfile
	if err := r.db.GetContext(ctx, &profile, query, vendorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.Error("GetProfile: query failed", err)
		return nil, err
	}
	return &profile, nil
}

func (r *postgresSettingsRepository) UpdateProfile(ctx context.Context, profile *domain.VendorProfile) error {
	query := `UPDATE vendor_profiles
              SET business_name = :business_name, email = :email, phone = :phone, address = :address,
                  business_type = :business_type, description = :description,
                  order_alerts = :order_alerts, low_stock_alerts = :low_stock_alerts, updated_at = NOW()
              WHERE vendor_id = :vendor_id`

	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		logger.Error("UpdateProfile: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresSettingsRepository) SetLogoURL(ctx context.Context, vendorID, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vendor_profiles SET logo_url = $1, updated_at = NOW() WHERE vendor_id = $2`, url, vendorID)
	if err != nil {
		logger.Error("SetLogoURL: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresSettingsRepository) ListPaymentMethods(ctx context.Context, vendorID string) ([]domain.PaymentMethodPref, error) {
	query := `SELECT id, vendor_id, type, details, is_default, created_at
              FROM vendor_payment_methods WHERE vendor_id = $1 ORDER BY created_at ASC`

	prefs := []domain.PaymentMethodPref{}
	if err := r.db.SelectContext(ctx, &prefs, query, vendorID); err != nil {
		logger.Error("ListPaymentMethods: query failed", err)
		return nil, err
	}
	return prefs, nil
}

func (r *postgresSettingsRepository) AddPaymentMethod(ctx context.Context, pref *domain.PaymentMethodPref) error {
	query := `INSERT INTO vendor_payment_methods (id, vendor_id, type, details, is_default, created_at)
              VALUES (:id, :vendor_id, :type, :details, :is_default, NOW())`

	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		logger.Error("AddPaymentMethod: insert failed", err)
		return err
	}
	return nil
}

func (r *postgresSettingsRepository) DeletePaymentMethod(ctx context.Context, vendorID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM vendor_payment_methods WHERE vendor_id = $1 AND id = $2`, vendorID, id)
	if err != nil {
		logger.Error("DeletePaymentMethod: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}
