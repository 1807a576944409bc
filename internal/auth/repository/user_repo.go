package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

const uniqueViolation = "23505"

const userColumns = `id::text, email, coalesce(password_hash, ''), firebase_uid, display_name, confirmed_at, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirebaseUID, &u.DisplayName, &u.ConfirmedAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a password user. u.ID is assigned when empty.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	q := `
INSERT INTO users (id, email, password_hash, display_name, confirmed_at)
VALUES ($1::uuid, $2, nullif($3, ''), $4, $5)
RETURNING ` + userColumns + `;
`
	created, err := scanUser(r.db.QueryRow(ctx, q, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.ConfirmedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	*u = *created
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1::uuid;`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

// GetByEmail retrieves a user by (case-insensitive) email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1);`
	return scanUser(r.db.QueryRow(ctx, q, strings.TrimSpace(email)))
}

// Confirm stamps confirmed_at once; confirming twice keeps the first timestamp.
func (r *UserRepository) Confirm(ctx context.Context, id string) (*domain.User, error) {
	q := `
UPDATE users
SET confirmed_at = coalesce(confirmed_at, now()), updated_at = now()
WHERE id = $1::uuid
RETURNING ` + userColumns + `;
`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

// EnsureExternal upserts a user asserted by an upstream identity provider.
// Such users are treated as confirmed.
func (r *UserRepository) EnsureExternal(ctx context.Context, ext domain.ExternalUser) (*domain.User, error) {
	if ext.UID == "" {
		return nil, fmt.Errorf("external uid required")
	}
	email := strings.ToLower(strings.TrimSpace(ext.Email))
	if email == "" {
		email = ext.UID + "@external.local"
	}

	q := `
INSERT INTO users (id, email, firebase_uid, display_name, confirmed_at)
VALUES ($1::uuid, $2, $3, nullif($4, ''), now())
ON CONFLICT (firebase_uid) DO UPDATE
SET
  email = coalesce(nullif($5, ''), users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  confirmed_at = coalesce(users.confirmed_at, now()),
  updated_at = now()
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, uuid.NewString(), email, ext.UID, ext.DisplayName, strings.TrimSpace(ext.Email)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return u, nil
}

// DeleteByEmail removes a user; projects and tasks cascade.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE lower(email) = lower($1);`, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
