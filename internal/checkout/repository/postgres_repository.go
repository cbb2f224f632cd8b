package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/miboks/miboks-server/internal/checkout/domain"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"go.uber.org/zap"
)

var (
	ErrSaleNotFound        = errors.New("sale not found")
	ErrInsufficientStock   = errors.New("insufficient stock for one or more products")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInstallmentSettled  = errors.New("installment already paid")
)

type SaleRepository interface {
	// CreateSaleWithItems persists the sale, its items, the per-product
	// stock decrements, and the installment schedule in one transaction.
	CreateSaleWithItems(ctx context.Context, sale *domain.Sale, schedule []domain.SaleInstallment) error
	ListSalesByVendor(ctx context.Context, vendorID string) ([]domain.Sale, error)
	GetSaleByID(ctx context.Context, vendorID, saleID string) (*domain.Sale, error)

	ListInstallmentsBySale(ctx context.Context, saleID string) ([]domain.SaleInstallment, error)
	MarkInstallmentPaid(ctx context.Context, saleID string, seq int) error
	MarkOverdueInstallments(ctx context.Context, now time.Time) (int64, error)
}

type postgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) SaleRepository {
	return &postgresSaleRepository{db: db}
}

func (r *postgresSaleRepository) CreateSaleWithItems(ctx context.Context, sale *domain.Sale, schedule []domain.SaleInstallment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateSaleWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	saleQuery := `INSERT INTO sales (id, vendor_id, customer_name, subtotal, tax, amount, payment_method, installments, installment_amount, status, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	sale.CreatedAt = time.Now()
	if sale.Status == "" {
		sale.Status = domain.SaleCompleted
	}

	_, err = tx.ExecContext(ctx, saleQuery,
		sale.ID, sale.VendorID, sale.CustomerName, sale.Subtotal, sale.Tax, sale.Amount,
		sale.PaymentMethod, sale.Installments, sale.InstallmentAmount, sale.Status, sale.CreatedAt)
	if err != nil {
		logger.Error("CreateSaleWithItems: failed to insert sale", err)
		return err
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO sale_items (sale_id, product_id, quantity, price)
                                             VALUES ($1, $2, $3, $4) RETURNING id`)
	if err != nil {
		logger.Error("CreateSaleWithItems: failed to prepare item statement", err)
		return err
	}
	defer itemStmt.Close()

	// The guarded update makes the whole checkout fail when any product
	// lacks stock, rolling back the sale insert with it.
	stockQuery := `UPDATE products SET quantity = quantity - $1, updated_at = NOW()
                   WHERE id = $2 AND vendor_id = $3 AND quantity >= $1`

	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		err = itemStmt.QueryRowContext(ctx, sale.ID, sale.Items[i].ProductID, sale.Items[i].Quantity, sale.Items[i].Price).
			Scan(&sale.Items[i].ID)
		if err != nil {
			logger.Error("CreateSaleWithItems: failed to insert sale item", err, zap.String("product_id", sale.Items[i].ProductID))
			return err
		}

		res, err := tx.ExecContext(ctx, stockQuery, sale.Items[i].Quantity, sale.Items[i].ProductID, sale.VendorID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
				return ErrInsufficientStock
			}
			logger.Error("CreateSaleWithItems: stock decrement failed", err, zap.String("product_id", sale.Items[i].ProductID))
			return err
		}
		rowsAffected, _ := res.RowsAffected()
		if rowsAffected == 0 {
			return ErrInsufficientStock
		}
	}

	for _, inst := range schedule {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_installments (sale_id, seq, amount, due_date, status) VALUES ($1, $2, $3, $4, $5)`,
			sale.ID, inst.Seq, inst.Amount, inst.DueDate, inst.Status)
		if err != nil {
			logger.Error("CreateSaleWithItems: failed to insert installment", err, zap.Int("seq", inst.Seq))
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresSaleRepository) ListSalesByVendor(ctx context.Context, vendorID string) ([]domain.Sale, error) {
	query := `SELECT id, vendor_id, customer_name, subtotal, tax, amount, payment_method, installments, installment_amount, status, created_at
              FROM sales WHERE vendor_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		logger.Error("ListSalesByVendor: query failed", err)
		return nil, err
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.VendorID, &s.CustomerName, &s.Subtotal, &s.Tax, &s.Amount,
			&s.PaymentMethod, &s.Installments, &s.InstallmentAmount, &s.Status, &s.CreatedAt); err != nil {
			logger.Error("ListSalesByVendor: scan failed", err)
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := r.listItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (r *postgresSaleRepository) listItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sale_id, product_id, quantity, price FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		logger.Error("listItems: query failed", err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var it domain.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			logger.Error("listItems: scan failed", err)
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresSaleRepository) GetSaleByID(ctx context.Context, vendorID, saleID string) (*domain.Sale, error) {
	query := `SELECT id, vendor_id, customer_name, subtotal, tax, amount, payment_method, installments, installment_amount, status, created_at
              FROM sales WHERE vendor_id = $1 AND id = $2`
	var s domain.Sale
	err := r.db.QueryRowContext(ctx, query, vendorID, saleID).Scan(
		&s.ID, &s.VendorID, &s.CustomerName, &s.Subtotal, &s.Tax, &s.Amount,
		&s.PaymentMethod, &s.Installments, &s.InstallmentAmount, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		logger.Error("GetSaleByID: query failed", err)
		return nil, err
	}

	items, err := r.listItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *postgresSaleRepository) ListInstallmentsBySale(ctx context.Context, saleID string) ([]domain.SaleInstallment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sale_id, seq, amount, due_date, status, paid_at FROM sale_installments WHERE sale_id = $1 ORDER BY seq ASC`, saleID)
	if err != nil {
		logger.Error("ListInstallmentsBySale: query failed", err)
		return nil, err
	}
	defer rows.Close()

	installments := []domain.SaleInstallment{}
	for rows.Next() {
		var inst domain.SaleInstallment
		var paidAt sql.NullTime
		if err := rows.Scan(&inst.ID, &inst.SaleID, &inst.Seq, &inst.Amount, &inst.DueDate, &inst.Status, &paidAt); err != nil {
			logger.Error("ListInstallmentsBySale: scan failed", err)
			return nil, err
		}
		if paidAt.Valid {
			inst.PaidAt = &paidAt.Time
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (r *postgresSaleRepository) MarkInstallmentPaid(ctx context.Context, saleID string, seq int) error {
	// Locating and updating the row in one statement keeps the
	// settled-versus-missing distinction consistent under concurrent writes.
	query := `WITH target AS (
                  SELECT id, status FROM sale_installments
                  WHERE sale_id = $2 AND seq = $3 FOR UPDATE
              ), updated AS (
                  UPDATE sale_installments SET status = $1, paid_at = NOW()
                  WHERE id IN (SELECT id FROM target WHERE status IN ($4, $5))
                  RETURNING id
              )
              SELECT EXISTS (SELECT 1 FROM target), EXISTS (SELECT 1 FROM updated)`

	var found, updated bool
	err := r.db.QueryRowContext(ctx, query, domain.InstallmentPaid, saleID, seq,
		domain.InstallmentPending, domain.InstallmentOverdue).Scan(&found, &updated)
	if err != nil {
		logger.Error("MarkInstallmentPaid: exec failed", err)
		return err
	}
	return installmentPaidOutcome(found, updated)
}

// installmentPaidOutcome maps the row-existence flags of the paid update
// to the repository's sentinel errors.
func installmentPaidOutcome(found, updated bool) error {
	switch {
	case updated:
		return nil
	case found:
		return ErrInstallmentSettled
	default:
		return ErrInstallmentNotFound
	}
}

func (r *postgresSaleRepository) MarkOverdueInstallments(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE sale_installments SET status = $1 WHERE status = $2 AND due_date < $3`
	res, err := r.db.ExecContext(ctx, query, domain.InstallmentOverdue, domain.InstallmentPending, now)
	if err != nil {
		logger.Error("MarkOverdueInstallments: exec failed", err)
		return 0, err
	}
	rowsAffected, _ := res.RowsAffected()
	return rowsAffected, nil
}
