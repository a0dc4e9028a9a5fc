package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// SQLiteInsumoRepo implements InsumoRepo using a SQLite database. Reads
// populate the insumo's attachment, tag, and responsible lists.
type SQLiteInsumoRepo struct {
	db db.DBTX
}

// NewSQLiteInsumoRepo creates a new SQLiteInsumoRepo.
func NewSQLiteInsumoRepo(conn db.DBTX) *SQLiteInsumoRepo {
	return &SQLiteInsumoRepo{db: conn}
}

const insumoColumns = `id, edition_id, type_id, title, status, content, notes, due_date,
	submitted_by, submitted_at, reviewed_by, reviewed_at, adjustment_reason, version,
	created_at, updated_at`

func (r *SQLiteInsumoRepo) Create(ctx context.Context, i *domain.Insumo) error {
	query := `INSERT INTO insumos (` + insumoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.EditionID,
		i.TypeID,
		i.Title,
		string(i.Status),
		i.Content,
		i.Notes,
		nullableTimeToString(i.DueDate, dateLayout),
		nullableString(i.SubmittedBy),
		nullableTimeToString(i.SubmittedAt, time.RFC3339),
		nullableString(i.ReviewedBy),
		nullableTimeToString(i.ReviewedAt, time.RFC3339),
		i.AdjustmentReason,
		i.Version,
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting insumo: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoRepo) GetByID(ctx context.Context, id string) (*domain.Insumo, error) {
	query := `SELECT ` + insumoColumns + ` FROM insumos WHERE id = ?`
	i, err := r.scanInsumo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, []*domain.Insumo{i}); err != nil {
		return nil, err
	}
	return i, nil
}

func (r *SQLiteInsumoRepo) ListByEdition(ctx context.Context, editionID string) ([]*domain.Insumo, error) {
	query := `SELECT ` + insumoColumns + ` FROM insumos WHERE edition_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, fmt.Errorf("listing insumos: %w", err)
	}
	defer rows.Close()

	var insumos []*domain.Insumo
	for rows.Next() {
		i, err := r.scanInsumoFromRows(rows)
		if err != nil {
			return nil, err
		}
		insumos = append(insumos, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insumos: %w", err)
	}
	if err := r.loadRelations(ctx, insumos); err != nil {
		return nil, err
	}
	return insumos, nil
}

// Update writes all mutable fields, including the version stamp. The caller
// owns the bump; the repo persists whatever it is handed.
func (r *SQLiteInsumoRepo) Update(ctx context.Context, i *domain.Insumo) error {
	query := `UPDATE insumos SET title = ?, status = ?, content = ?, notes = ?, due_date = ?,
		submitted_by = ?, submitted_at = ?, reviewed_by = ?, reviewed_at = ?,
		adjustment_reason = ?, version = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Title,
		string(i.Status),
		i.Content,
		i.Notes,
		nullableTimeToString(i.DueDate, dateLayout),
		nullableString(i.SubmittedBy),
		nullableTimeToString(i.SubmittedAt, time.RFC3339),
		nullableString(i.ReviewedBy),
		nullableTimeToString(i.ReviewedAt, time.RFC3339),
		i.AdjustmentReason,
		i.Version,
		nowUTC(),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating insumo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insumo update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("insumo: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteInsumoRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM insumos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting insumo: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoRepo) CountByStatus(ctx context.Context, editionID string) (map[domain.InsumoStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM insumos WHERE edition_id = ? GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, fmt.Errorf("counting insumos by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.InsumoStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[domain.InsumoStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteInsumoRepo) AddAttachment(ctx context.Context, a *domain.Attachment) error {
	query := `INSERT INTO attachments (id, insumo_id, kind, filename, url, caption, size_bytes, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.InsumoID,
		string(a.Kind),
		a.Filename,
		a.URL,
		a.Caption,
		a.SizeBytes,
		a.UploadedBy,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting attachment: %w", err)
	}
	return nil
}

func (r *SQLiteInsumoRepo) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, attachmentID); err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}

// SetTags replaces the insumo's tag set.
func (r *SQLiteInsumoRepo) SetTags(ctx context.Context, insumoID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM insumo_tags WHERE insumo_id = ?`, insumoID); err != nil {
		return fmt.Errorf("clearing insumo tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO insumo_tags (insumo_id, tag_id) VALUES (?, ?)`, insumoID, tagID); err != nil {
			return fmt.Errorf("inserting insumo tag: %w", err)
		}
	}
	return nil
}

// SetResponsibles replaces the insumo's responsible set.
func (r *SQLiteInsumoRepo) SetResponsibles(ctx context.Context, insumoID string, userIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM insumo_responsibles WHERE insumo_id = ?`, insumoID); err != nil {
		return fmt.Errorf("clearing insumo responsibles: %w", err)
	}
	for _, userID := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO insumo_responsibles (insumo_id, user_id) VALUES (?, ?)`, insumoID, userID); err != nil {
			return fmt.Errorf("inserting insumo responsible: %w", err)
		}
	}
	return nil
}

func (r *SQLiteInsumoRepo) scanInsumo(row *sql.Row) (*domain.Insumo, error) {
	var i domain.Insumo
	var statusStr, createdAtStr, updatedAtStr string
	var dueDateStr, submittedBy, submittedAtStr, reviewedBy, reviewedAtStr sql.NullString

	err := row.Scan(
		&i.ID, &i.EditionID, &i.TypeID, &i.Title, &statusStr, &i.Content, &i.Notes,
		&dueDateStr, &submittedBy, &submittedAtStr, &reviewedBy, &reviewedAtStr,
		&i.AdjustmentReason, &i.Version, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("insumo: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning insumo: %w", err)
	}
	return r.populateInsumo(&i, statusStr, createdAtStr, updatedAtStr,
		dueDateStr, submittedBy, submittedAtStr, reviewedBy, reviewedAtStr)
}

func (r *SQLiteInsumoRepo) scanInsumoFromRows(rows *sql.Rows) (*domain.Insumo, error) {
	var i domain.Insumo
	var statusStr, createdAtStr, updatedAtStr string
	var dueDateStr, submittedBy, submittedAtStr, reviewedBy, reviewedAtStr sql.NullString

	err := rows.Scan(
		&i.ID, &i.EditionID, &i.TypeID, &i.Title, &statusStr, &i.Content, &i.Notes,
		&dueDateStr, &submittedBy, &submittedAtStr, &reviewedBy, &reviewedAtStr,
		&i.AdjustmentReason, &i.Version, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning insumo row: %w", err)
	}
	return r.populateInsumo(&i, statusStr, createdAtStr, updatedAtStr,
		dueDateStr, submittedBy, submittedAtStr, reviewedBy, reviewedAtStr)
}

func (r *SQLiteInsumoRepo) populateInsumo(
	i *domain.Insumo,
	statusStr, createdAtStr, updatedAtStr string,
	dueDateStr, submittedBy, submittedAtStr, reviewedBy, reviewedAtStr sql.NullString,
) (*domain.Insumo, error) {
	i.Status = domain.InsumoStatus(statusStr)
	i.SubmittedBy = submittedBy.String
	i.ReviewedBy = reviewedBy.String
	i.DueDate = parseNullableTime(dueDateStr, dateLayout)
	i.SubmittedAt = parseNullableTime(submittedAtStr, time.RFC3339)
	i.ReviewedAt = parseNullableTime(reviewedAtStr, time.RFC3339)

	var parseErr error
	i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	i.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return i, nil
}

// loadRelations populates attachments, tags, and responsibles for the given
// insumos with one query per relation.
func (r *SQLiteInsumoRepo) loadRelations(ctx context.Context, insumos []*domain.Insumo) error {
	if len(insumos) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Insumo, len(insumos))
	ids := make([]any, 0, len(insumos))
	placeholders := ""
	for n, i := range insumos {
		byID[i.ID] = i
		ids = append(ids, i.ID)
		if n > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}

	if err := r.loadAttachments(ctx, byID, placeholders, ids); err != nil {
		return err
	}
	if err := r.loadTags(ctx, byID, placeholders, ids); err != nil {
		return err
	}
	return r.loadResponsibles(ctx, byID, placeholders, ids)
}

func (r *SQLiteInsumoRepo) loadAttachments(ctx context.Context, byID map[string]*domain.Insumo, placeholders string, ids []any) error {
	query := `SELECT id, insumo_id, kind, filename, url, caption, size_bytes, uploaded_by, created_at
		FROM attachments WHERE insumo_id IN (` + placeholders + `) ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Attachment
		var kindStr, createdAtStr string
		if err := rows.Scan(&a.ID, &a.InsumoID, &kindStr, &a.Filename, &a.URL,
			&a.Caption, &a.SizeBytes, &a.UploadedBy, &createdAtStr); err != nil {
			return fmt.Errorf("scanning attachment: %w", err)
		}
		a.Kind = domain.AttachmentKind(kindStr)
		a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return fmt.Errorf("parsing attachment created_at: %w", err)
		}
		if i, ok := byID[a.InsumoID]; ok {
			i.Attachments = append(i.Attachments, a)
		}
	}
	return rows.Err()
}

func (r *SQLiteInsumoRepo) loadTags(ctx context.Context, byID map[string]*domain.Insumo, placeholders string, ids []any) error {
	query := `SELECT it.insumo_id, t.id, t.name, t.color
		FROM insumo_tags it JOIN tags t ON t.id = it.tag_id
		WHERE it.insumo_id IN (` + placeholders + `) ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("listing insumo tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var insumoID string
		var t domain.Tag
		if err := rows.Scan(&insumoID, &t.ID, &t.Name, &t.Color); err != nil {
			return fmt.Errorf("scanning insumo tag: %w", err)
		}
		if i, ok := byID[insumoID]; ok {
			i.Tags = append(i.Tags, t)
		}
	}
	return rows.Err()
}

func (r *SQLiteInsumoRepo) loadResponsibles(ctx context.Context, byID map[string]*domain.Insumo, placeholders string, ids []any) error {
	query := `SELECT ir.insumo_id, u.id, u.name
		FROM insumo_responsibles ir JOIN users u ON u.id = ir.user_id
		WHERE ir.insumo_id IN (` + placeholders + `) ORDER BY u.name`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("listing insumo responsibles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var insumoID string
		var ref domain.UserRef
		if err := rows.Scan(&insumoID, &ref.ID, &ref.Name); err != nil {
			return fmt.Errorf("scanning insumo responsible: %w", err)
		}
		if i, ok := byID[insumoID]; ok {
			i.Responsibles = append(i.Responsibles, ref)
		}
	}
	return rows.Err()
}
