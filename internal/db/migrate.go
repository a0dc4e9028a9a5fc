package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateInsumosAdjustmentStatus(db); err != nil {
		return fmt.Errorf("migrating insumos status constraint: %w", err)
	}
	return nil
}

// migrateInsumosAdjustmentStatus rebuilds the insumos table when its status
// CHECK predates the adjustment_requested stage. SQLite cannot alter a CHECK
// in place, so the table is recreated and the rows copied over.
func migrateInsumosAdjustmentStatus(db *sql.DB) error {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring db connection: %w", err)
	}
	defer conn.Close()

	var createSQL string
	if err := conn.QueryRowContext(ctx, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'insumos'`).Scan(&createSQL); err != nil {
		return fmt.Errorf("loading insumos schema: %w", err)
	}
	if strings.Contains(strings.ToLower(createSQL), "'adjustment_requested'") {
		return nil
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS insumos_new`); err != nil {
		return fmt.Errorf("dropping stale insumos_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE TABLE insumos_new (
		id                TEXT PRIMARY KEY,
		edition_id        TEXT NOT NULL REFERENCES editions(id) ON DELETE CASCADE,
		type_id           TEXT NOT NULL REFERENCES insumo_types(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'not_started'
		                  CHECK(status IN ('not_started','in_progress','submitted','under_review','adjustment_requested','approved')),
		content           TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		due_date          TEXT,
		submitted_by      TEXT REFERENCES users(id) ON DELETE SET NULL,
		submitted_at      TEXT,
		reviewed_by       TEXT REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at       TEXT,
		adjustment_reason TEXT NOT NULL DEFAULT '',
		version           INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating insumos_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO insumos_new (
		id, edition_id, type_id, title, status, content, notes, due_date,
		submitted_by, submitted_at, reviewed_by, reviewed_at,
		adjustment_reason, version, created_at, updated_at
	) SELECT
		id, edition_id, type_id, title, status, content, notes, due_date,
		submitted_by, submitted_at, reviewed_by, reviewed_at,
		adjustment_reason, version, created_at, updated_at
	FROM insumos`); err != nil {
		return fmt.Errorf("copying insumos data: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE insumos`); err != nil {
		return fmt.Errorf("dropping old insumos: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `ALTER TABLE insumos_new RENAME TO insumos`); err != nil {
		return fmt.Errorf("renaming insumos_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_insumos_edition ON insumos(edition_id)`); err != nil {
		return fmt.Errorf("recreating idx_insumos_edition: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_insumos_status ON insumos(status)`); err != nil {
		return fmt.Errorf("recreating idx_insumos_status: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_insumos_due ON insumos(due_date)`); err != nil {
		return fmt.Errorf("recreating idx_insumos_due: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insumos migration: %w", err)
	}
	committed = true

	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug ON products(slug)`,

	`CREATE TABLE IF NOT EXISTS insumo_types (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		slug             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		sort_order       INTEGER NOT NULL DEFAULT 0,
		requires_image   INTEGER NOT NULL DEFAULT 0,
		requires_caption INTEGER NOT NULL DEFAULT 0,
		requires_pdf     INTEGER NOT NULL DEFAULT 0,
		active           INTEGER NOT NULL DEFAULT 1,
		created_at       TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_insumo_types_slug ON insumo_types(slug)`,

	`CREATE TABLE IF NOT EXISTS editions (
		id         TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		month      INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
		year       INTEGER NOT NULL,
		phase      TEXT NOT NULL DEFAULT 'kickoff'
		           CHECK(phase IN ('kickoff','text_inputs','final_data','build','validation','done')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_editions_product ON editions(product_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_editions_cycle ON editions(product_id, year, month)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL
		           CHECK(role IN ('supervisor','mid_analyst','analyst','coordinator','manager')),
		created_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email != ''`,

	`CREATE TABLE IF NOT EXISTS user_products (
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS insumos (
		id                TEXT PRIMARY KEY,
		edition_id        TEXT NOT NULL REFERENCES editions(id) ON DELETE CASCADE,
		type_id           TEXT NOT NULL REFERENCES insumo_types(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'not_started'
		                  CHECK(status IN ('not_started','in_progress','submitted','under_review','adjustment_requested','approved')),
		content           TEXT NOT NULL DEFAULT '',
		due_date          TEXT,
		submitted_by      TEXT REFERENCES users(id) ON DELETE SET NULL,
		submitted_at      TEXT,
		reviewed_by       TEXT REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at       TEXT,
		adjustment_reason TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_insumos_edition ON insumos(edition_id)`,
	`CREATE INDEX IF NOT EXISTS idx_insumos_status ON insumos(status)`,
	`CREATE INDEX IF NOT EXISTS idx_insumos_due ON insumos(due_date)`,

	`CREATE TABLE IF NOT EXISTS attachments (
		id          TEXT PRIMARY KEY,
		insumo_id   TEXT NOT NULL REFERENCES insumos(id) ON DELETE CASCADE,
		kind        TEXT NOT NULL CHECK(kind IN ('image','pdf','other')),
		filename    TEXT NOT NULL,
		url         TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		size_bytes  INTEGER NOT NULL DEFAULT 0,
		uploaded_by TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_attachments_insumo ON attachments(insumo_id)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name ON tags(name)`,

	`CREATE TABLE IF NOT EXISTS insumo_tags (
		insumo_id TEXT NOT NULL REFERENCES insumos(id) ON DELETE CASCADE,
		tag_id    TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (insumo_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS insumo_responsibles (
		insumo_id TEXT NOT NULL REFERENCES insumos(id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (insumo_id, user_id)
	)`,

	// Added with the adjustment_requested stage; the status CHECK itself is
	// widened by migrateInsumosAdjustmentStatus.
	`ALTER TABLE insumos ADD COLUMN adjustment_reason TEXT NOT NULL DEFAULT ''`,

	// Free-form production notes, added after launch.
	`ALTER TABLE insumos ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,

	// Monotonic write stamp used by the board reconciler.
	`ALTER TABLE insumos ADD COLUMN version INTEGER NOT NULL DEFAULT 0`,
}
