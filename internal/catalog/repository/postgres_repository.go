package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by existing products")
	ErrNegativeQuantity = errors.New("product quantity may not go negative")
)

type CatalogRepository interface {
	ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error)
	GetProductByID(ctx context.Context, vendorID, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, vendorID, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type postgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

func (r *postgresCatalogRepository) ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error) {
	query := `SELECT id, vendor_id, name, description, price, quantity, category_id, image_url, created_at, updated_at
              FROM products WHERE vendor_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var categoryID, imageURL sql.NullString
	err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Quantity, &categoryID, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}

func (r *postgresCatalogRepository) GetProductByID(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	query := `SELECT id, vendor_id, name, description, price, quantity, category_id, image_url, created_at, updated_at
              FROM products WHERE vendor_id = $1 AND id = $2`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, vendorID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return p, nil
}

func (r *postgresCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (vendor_id, name, description, price, quantity, category_id, image_url, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`

	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, p.VendorID, p.Name, p.Description, p.Price, p.Quantity,
		nullable(p.CategoryID), nullable(p.ImageURL), p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = $1, description = $2, price = $3, quantity = $4, category_id = $5, image_url = $6, updated_at = NOW()
              WHERE vendor_id = $7 AND id = $8`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Price, p.Quantity,
		nullable(p.CategoryID), nullable(p.ImageURL), p.VendorID, p.ID)
	if err != nil {
		// 23514 is check_violation (quantity/price below zero)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			logger.Error("UpdateProduct: check violation", err)
			return ErrNegativeQuantity
		}
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresCatalogRepository) DeleteProduct(ctx context.Context, vendorID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE vendor_id = $1 AND id = $2`, vendorID, id)
	if err != nil {
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			logger.Error("ListCategories: scan failed", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (name, description, created_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	c.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.CreatedAt).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		logger.Error("CreateCategory: failed to insert category", err)
		return err
	}
	return nil
}

func (r *postgresCatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// 23503 is foreign_key_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrCategoryInUse
		}
		logger.Error("DeleteCategory: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
