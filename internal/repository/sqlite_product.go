package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// SQLiteProductRepo implements ProductRepo using a SQLite database.
type SQLiteProductRepo struct {
	db db.DBTX
}

// NewSQLiteProductRepo creates a new SQLiteProductRepo.
func NewSQLiteProductRepo(conn db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: conn}
}

const productColumns = `id, name, slug, active, sort_order, created_at, updated_at`

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		boolToInt(p.Active),
		p.SortOrder,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = ?`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteProductRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY sort_order, name`
	if !includeInactive {
		query = `SELECT ` + productColumns + ` FROM products WHERE active = 1 ORDER BY sort_order, name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := r.scanProductFromRows(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (r *SQLiteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = ?, slug = ?, active = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Slug,
		boolToInt(p.Active),
		p.SortOrder,
		nowUTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	var active int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&p.ID, &p.Name, &p.Slug, &active, &p.SortOrder, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return r.populateProduct(&p, active, createdAtStr, updatedAtStr)
}

func (r *SQLiteProductRepo) scanProductFromRows(rows *sql.Rows) (*domain.Product, error) {
	var p domain.Product
	var active int
	var createdAtStr, updatedAtStr string

	err := rows.Scan(&p.ID, &p.Name, &p.Slug, &active, &p.SortOrder, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning product row: %w", err)
	}
	return r.populateProduct(&p, active, createdAtStr, updatedAtStr)
}

func (r *SQLiteProductRepo) populateProduct(p *domain.Product, active int, createdAtStr, updatedAtStr string) (*domain.Product, error) {
	p.Active = intToBool(active)

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return p, nil
}
