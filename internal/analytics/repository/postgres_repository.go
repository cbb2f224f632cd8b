package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/miboks/miboks-server/internal/analytics/domain"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

type AnalyticsRepository interface {
	SalesBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.SaleRecord, error)
	ItemsBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.ItemRecord, error)
}

type postgresAnalyticsRepository struct {
	db *sqlx.DB
}

func NewPostgresAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &postgresAnalyticsRepository{db: db}
}

func (r *postgresAnalyticsRepository) SalesBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.SaleRecord, error) {
	query := `SELECT id, amount, created_at FROM sales
              WHERE vendor_id = $1 AND created_at >= $2 AND created_at < $3
              ORDER BY created_at ASC`

	records := []domain.SaleRecord{}
	if err := r.db.SelectContext(ctx, &records, query, vendorID, from, to); err != nil {
		logger.Error("SalesBetween: query failed", err)
		return nil, err
	}
	return records, nil
}

func (r *postgresAnalyticsRepository) ItemsBetween(ctx context.Context, vendorID string, from, to time.Time) ([]domain.ItemRecord, error) {
	// Products can be deleted after a sale, so the name falls back to the id.
	query := `SELECT si.product_id, COALESCE(p.name, si.product_id) AS product_name, si.quantity
              FROM sale_items si
              JOIN sales s ON s.id = si.sale_id
              LEFT JOIN products p ON p.id = si.product_id
              WHERE s.vendor_id = $1 AND s.created_at >= $2 AND s.created_at < $3
              ORDER BY s.created_at ASC, si.id ASC`

	records := []domain.ItemRecord{}
	if err := r.db.SelectContext(ctx, &records, query, vendorID, from, to); err != nil {
		logger.Error("ItemsBetween: query failed", err)
		return nil, err
	}
	return records, nil
}
