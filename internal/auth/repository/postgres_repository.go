package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/miboks/miboks-server/internal/auth/domain"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

var ErrVendorNotFound = errors.New("vendor not found")
var ErrVendorConflict = errors.New("vendor with this email or phone number already exists")

type VendorRepository interface {
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error)
	GetVendorByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Vendor, error)
	GetVendorByIdentifier(ctx context.Context, identifier string) (*domain.Vendor, error)
}

type postgresVendorRepository struct {
	db *sql.DB
}

func NewPostgresVendorRepository(db *sql.DB) VendorRepository {
	return &postgresVendorRepository{db: db}
}

func (r *postgresVendorRepository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	query := `INSERT INTO vendors (business_name, email, phone_number, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`

	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = time.Now()

	var phoneNumber sql.NullString
	if vendor.PhoneNumber != nil {
		phoneNumber = sql.NullString{String: *vendor.PhoneNumber, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, vendor.BusinessName, vendor.Email, phoneNumber, vendor.PasswordHash, vendor.CreatedAt, vendor.UpdatedAt).
		Scan(&vendor.ID, &vendor.CreatedAt, &vendor.UpdatedAt)

	if err != nil {
		// 23505 is unique_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			logger.Error("CreateVendor: unique violation", err)
			return ErrVendorConflict
		}
		logger.Error("CreateVendor: failed to insert vendor", err)
		return err
	}
	return nil
}

func (r *postgresVendorRepository) getVendorBy(ctx context.Context, field, value string) (*domain.Vendor, error) {
	query := `SELECT id, business_name, email, phone_number, password_hash, created_at, updated_at FROM vendors WHERE ` + field + ` = $1`
	vendor := &domain.Vendor{}
	var phoneNumber sql.NullString

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&vendor.ID, &vendor.BusinessName, &vendor.Email, &phoneNumber, &vendor.PasswordHash, &vendor.CreatedAt, &vendor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		logger.Error("GetVendorBy"+field+": query failed", err)
		return nil, err
	}
	if phoneNumber.Valid {
		vendor.PhoneNumber = &phoneNumber.String
	}
	return vendor, nil
}

func (r *postgresVendorRepository) GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	return r.getVendorBy(ctx, "email", email)
}

func (r *postgresVendorRepository) GetVendorByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Vendor, error) {
	return r.getVendorBy(ctx, "phone_number", phoneNumber)
}

// GetVendorByIdentifier tries email first, then phone number.
func (r *postgresVendorRepository) GetVendorByIdentifier(ctx context.Context, identifier string) (*domain.Vendor, error) {
	vendor, err := r.GetVendorByEmail(ctx, identifier)
	if err == nil {
		return vendor, nil
	}
	if !errors.Is(err, ErrVendorNotFound) {
		return nil, err
	}
	return r.GetVendorByPhoneNumber(ctx, identifier)
}
