package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// SQLiteEditionRepo implements EditionRepo using a SQLite database.
type SQLiteEditionRepo struct {
	db db.DBTX
}

// NewSQLiteEditionRepo creates a new SQLiteEditionRepo.
func NewSQLiteEditionRepo(conn db.DBTX) *SQLiteEditionRepo {
	return &SQLiteEditionRepo{db: conn}
}

const editionColumns = `id, product_id, month, year, phase, created_at, updated_at`

func (r *SQLiteEditionRepo) Create(ctx context.Context, e *domain.Edition) error {
	query := `INSERT INTO editions (` + editionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProductID,
		e.Month,
		e.Year,
		string(e.Phase),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting edition: %w", err)
	}
	return nil
}

func (r *SQLiteEditionRepo) GetByID(ctx context.Context, id string) (*domain.Edition, error) {
	query := `SELECT ` + editionColumns + ` FROM editions WHERE id = ?`
	return r.scanEdition(r.db.QueryRowContext(ctx, query, id))
}

// GetByCycle resolves the edition for one product's monthly cycle. Each
// product has at most one edition per year/month pair.
func (r *SQLiteEditionRepo) GetByCycle(ctx context.Context, productID string, year, month int) (*domain.Edition, error) {
	query := `SELECT ` + editionColumns + ` FROM editions WHERE product_id = ? AND year = ? AND month = ?`
	return r.scanEdition(r.db.QueryRowContext(ctx, query, productID, year, month))
}

func (r *SQLiteEditionRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Edition, error) {
	query := `SELECT ` + editionColumns + ` FROM editions WHERE product_id = ? ORDER BY year DESC, month DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing editions: %w", err)
	}
	defer rows.Close()

	var editions []*domain.Edition
	for rows.Next() {
		e, err := r.scanEditionFromRows(rows)
		if err != nil {
			return nil, err
		}
		editions = append(editions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating editions: %w", err)
	}
	return editions, nil
}

func (r *SQLiteEditionRepo) SetPhase(ctx context.Context, id string, phase domain.ProductionPhase) error {
	query := `UPDATE editions SET phase = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(phase), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting edition phase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking phase update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("edition: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteEditionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM editions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting edition: %w", err)
	}
	return nil
}

func (r *SQLiteEditionRepo) scanEdition(row *sql.Row) (*domain.Edition, error) {
	var e domain.Edition
	var phaseStr, createdAtStr, updatedAtStr string

	err := row.Scan(&e.ID, &e.ProductID, &e.Month, &e.Year, &phaseStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("edition: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning edition: %w", err)
	}
	return r.populateEdition(&e, phaseStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteEditionRepo) scanEditionFromRows(rows *sql.Rows) (*domain.Edition, error) {
	var e domain.Edition
	var phaseStr, createdAtStr, updatedAtStr string

	err := rows.Scan(&e.ID, &e.ProductID, &e.Month, &e.Year, &phaseStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning edition row: %w", err)
	}
	return r.populateEdition(&e, phaseStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteEditionRepo) populateEdition(e *domain.Edition, phaseStr, createdAtStr, updatedAtStr string) (*domain.Edition, error) {
	e.Phase = domain.ProductionPhase(phaseStr)

	var parseErr error
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	e.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return e, nil
}
