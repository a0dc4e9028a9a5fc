package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// SQLiteInsumoTypeRepo implements InsumoTypeRepo using a SQLite database.
type SQLiteInsumoTypeRepo struct {
	db db.DBTX
}

// NewSQLiteInsumoTypeRepo creates a new SQLiteInsumoTypeRepo.
func NewSQLiteInsumoTypeRepo(conn db.DBTX) *SQLiteInsumoTypeRepo {
	return &SQLiteInsumoTypeRepo{db: conn}
}

const insumoTypeColumns = `id, name, slug, description, sort_order,
	requires_image, requires_caption, requires_pdf, active, created_at`

func (r *SQLiteInsumoTypeRepo) Create(ctx context.Context, it *domain.InsumoType) error {
	query := `INSERT INTO insumo_types (` + insumoTypeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		it.ID,
		it.Name,
		it.Slug,
		it.Description,
		it.SortOrder,
		boolToInt(it.RequiresImage),
		boolToInt(it.RequiresCaption),
		boolToInt(it.RequiresPDF),
		boolToInt(it.Active),
		it.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting insumo type: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoTypeRepo) GetByID(ctx context.Context, id string) (*domain.InsumoType, error) {
	query := `SELECT ` + insumoTypeColumns + ` FROM insumo_types WHERE id = ?`
	return r.scanType(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteInsumoTypeRepo) GetBySlug(ctx context.Context, slug string) (*domain.InsumoType, error) {
	query := `SELECT ` + insumoTypeColumns + ` FROM insumo_types WHERE slug = ?`
	return r.scanType(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteInsumoTypeRepo) List(ctx context.Context, includeInactive bool) ([]*domain.InsumoType, error) {
	query := `SELECT ` + insumoTypeColumns + ` FROM insumo_types ORDER BY sort_order, name`
	if !includeInactive {
		query = `SELECT ` + insumoTypeColumns + ` FROM insumo_types WHERE active = 1 ORDER BY sort_order, name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing insumo types: %w", err)
	}
	defer rows.Close()

	var types []*domain.InsumoType
	for rows.Next() {
		it, err := r.scanTypeFromRows(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insumo types: %w", err)
	}
	return types, nil
}

func (r *SQLiteInsumoTypeRepo) Update(ctx context.Context, it *domain.InsumoType) error {
	query := `UPDATE insumo_types SET name = ?, slug = ?, description = ?, sort_order = ?,
		requires_image = ?, requires_caption = ?, requires_pdf = ?, active = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		it.Name,
		it.Slug,
		it.Description,
		it.SortOrder,
		boolToInt(it.RequiresImage),
		boolToInt(it.RequiresCaption),
		boolToInt(it.RequiresPDF),
		boolToInt(it.Active),
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating insumo type: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoTypeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM insumo_types WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting insumo type: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoTypeRepo) scanType(row *sql.Row) (*domain.InsumoType, error) {
	var it domain.InsumoType
	var image, caption, pdf, active int
	var createdAtStr string

	err := row.Scan(&it.ID, &it.Name, &it.Slug, &it.Description, &it.SortOrder,
		&image, &caption, &pdf, &active, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("insumo type: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning insumo type: %w", err)
	}
	return r.populateType(&it, image, caption, pdf, active, createdAtStr)
}

func (r *SQLiteInsumoTypeRepo) scanTypeFromRows(rows *sql.Rows) (*domain.InsumoType, error) {
	var it domain.InsumoType
	var image, caption, pdf, active int
	var createdAtStr string

	err := rows.Scan(&it.ID, &it.Name, &it.Slug, &it.Description, &it.SortOrder,
		&image, &caption, &pdf, &active, &createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning insumo type row: %w", err)
	}
	return r.populateType(&it, image, caption, pdf, active, createdAtStr)
}

func (r *SQLiteInsumoTypeRepo) populateType(it *domain.InsumoType, image, caption, pdf, active int, createdAtStr string) (*domain.InsumoType, error) {
	it.RequiresImage = intToBool(image)
	it.RequiresCaption = intToBool(caption)
	it.RequiresPDF = intToBool(pdf)
	it.Active = intToBool(active)

	var parseErr error
	it.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return it, nil
}
