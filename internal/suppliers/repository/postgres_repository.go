package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/suppliers/domain"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierRepository interface {
	ListSuppliers(ctx context.Context, vendorID string, filter domain.ListFilter) ([]domain.Supplier, error)
	GetSupplierByID(ctx context.Context, vendorID, id string) (*domain.Supplier, error)
	CreateSupplier(ctx context.Context, s *domain.Supplier) error
	ToggleVerified(ctx context.Context, vendorID, id string) (bool, error)
	DeleteSupplier(ctx context.Context, vendorID, id string) error
}

type postgresSupplierRepository struct {
	db *sql.DB
}

func NewPostgresSupplierRepository(db *sql.DB) SupplierRepository {
	return &postgresSupplierRepository{db: db}
}

func (r *postgresSupplierRepository) ListSuppliers(ctx context.Context, vendorID string, filter domain.ListFilter) ([]domain.Supplier, error) {
	query := `SELECT id, vendor_id, name, business_type, contact_person, email, phone, address, is_verified, created_at, updated_at
              FROM suppliers
              WHERE vendor_id = $1
                AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR business_type ILIKE '%' || $2 || '%')
                AND ($3::boolean IS NULL OR is_verified = $3)
              ORDER BY name ASC`

	var verified sql.NullBool
	if filter.Verified != nil {
		verified = sql.NullBool{Bool: *filter.Verified, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, vendorID, filter.Query, verified)
	if err != nil {
		logger.Error("ListSuppliers: query failed", err)
		return nil, err
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			logger.Error("ListSuppliers: scan failed", err)
			return nil, err
		}
		suppliers = append(suppliers, *s)
	}
	return suppliers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var s domain.Supplier
	var contactPerson, email, phone, address sql.NullString
	err := row.Scan(&s.ID, &s.VendorID, &s.Name, &s.BusinessType, &contactPerson, &email, &phone, &address,
		&s.IsVerified, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if contactPerson.Valid {
		s.ContactPerson = &contactPerson.String
	}
	if email.Valid {
		s.Email = &email.String
	}
	if phone.Valid {
		s.Phone = &phone.String
	}
	if address.Valid {
		s.Address = &address.String
	}
	return &s, nil
}

func (r *postgresSupplierRepository) GetSupplierByID(ctx context.Context, vendorID, id string) (*domain.Supplier, error) {
	query := `SELECT id, vendor_id, name, business_type, contact_person, email, phone, address, is_verified, created_at, updated_at
              FROM suppliers WHERE vendor_id = $1 AND id = $2`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, vendorID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		logger.Error("GetSupplierByID: query failed", err)
		return nil, err
	}
	return s, nil
}

func (r *postgresSupplierRepository) CreateSupplier(ctx context.Context, s *domain.Supplier) error {
	query := `INSERT INTO suppliers (vendor_id, name, business_type, contact_person, email, phone, address, is_verified, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`

	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, s.VendorID, s.Name, s.BusinessType,
		nullable(s.ContactPerson), nullable(s.Email), nullable(s.Phone), nullable(s.Address),
		s.IsVerified, s.CreatedAt, s.UpdatedAt).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		logger.Error("CreateSupplier: failed to insert supplier", err)
		return err
	}
	return nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// ToggleVerified flips the verification flag and returns the new state.
func (r *postgresSupplierRepository) ToggleVerified(ctx context.Context, vendorID, id string) (bool, error) {
	query := `UPDATE suppliers SET is_verified = NOT is_verified, updated_at = NOW()
              WHERE vendor_id = $1 AND id = $2 RETURNING is_verified`

	var verified bool
	err := r.db.QueryRowContext(ctx, query, vendorID, id).Scan(&verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrSupplierNotFound
		}
		logger.Error("ToggleVerified: exec failed", err)
		return false, err
	}
	return verified, nil
}

func (r *postgresSupplierRepository) DeleteSupplier(ctx context.Context, vendorID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE vendor_id = $1 AND id = $2`, vendorID, id)
	if err != nil {
		logger.Error("DeleteSupplier: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
