package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database. Product access
// lives in the user_products join table; reads surface it as slugs.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `id, name, email, role, created_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		string(u.Role),
		u.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadProductSlugs(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, err
	}
	if err := r.loadProductSlugs(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := r.scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	for _, u := range users {
		if err := r.loadProductSlugs(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *SQLiteUserRepo) GrantProduct(ctx context.Context, userID, productID string) error {
	query := `INSERT OR IGNORE INTO user_products (user_id, product_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("granting product access: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) RevokeProduct(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM user_products WHERE user_id = ? AND product_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("revoking product access: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var roleStr, createdAtStr string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &roleStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return r.populateUser(&u, roleStr, createdAtStr)
}

func (r *SQLiteUserRepo) scanUserFromRows(rows *sql.Rows) (*domain.User, error) {
	var u domain.User
	var roleStr, createdAtStr string

	err := rows.Scan(&u.ID, &u.Name, &u.Email, &roleStr, &createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return r.populateUser(&u, roleStr, createdAtStr)
}

func (r *SQLiteUserRepo) populateUser(u *domain.User, roleStr, createdAtStr string) (*domain.User, error) {
	u.Role = domain.Role(roleStr)

	var parseErr error
	u.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return u, nil
}

func (r *SQLiteUserRepo) loadProductSlugs(ctx context.Context, u *domain.User) error {
	query := `SELECT p.slug FROM user_products up JOIN products p ON p.id = up.product_id
		WHERE up.user_id = ? ORDER BY p.slug`
	rows, err := r.db.QueryContext(ctx, query, u.ID)
	if err != nil {
		return fmt.Errorf("listing user products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return fmt.Errorf("scanning user product slug: %w", err)
		}
		u.ProductSlugs = append(u.ProductSlugs, slug)
	}
	return rows.Err()
}
