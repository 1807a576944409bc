package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/projects/utils"
)

const (
	uniqueViolation  = "23505"
	publicIDAttempts = 5
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.PublicID, &p.OwnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project for the given owner.
func (r *ProjectRepository) Create(ctx context.Context, ownerID string, attrs domain.Attributes) (*domain.Project, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}

	for i := 0; i < publicIDAttempts; i++ {
		publicID, err := utils.NewTextID(utils.ProjectIDPrefix)
		if err != nil {
			return nil, err
		}

		const q = `
INSERT INTO projects (public_id, owner_id, name)
VALUES ($1, $2, $3)
RETURNING public_id, owner_id, name, created_at, updated_at;
`
		p, err := scanProject(r.db.QueryRowContext(ctx, q, publicID, ownerID, attrs.Name))
		if err == nil {
			return p, nil
		}

		// unique violation on public_id → retry
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			continue
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// List returns all non-deleted projects for the given owner, newest first.
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
SELECT public_id, owner_id, name, created_at, updated_at
FROM projects
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns a single project owned by ownerID.
func (r *ProjectRepository) Find(ctx context.Context, ownerID, publicID string) (*domain.Project, error) {
	const q = `
SELECT public_id, owner_id, name, created_at, updated_at
FROM projects
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, ownerID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

// Update applies attrs to the project and returns the stored row.
func (r *ProjectRepository) Update(ctx context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Project, error) {
	const q = `
UPDATE projects
SET name = $3, updated_at = now()
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL
RETURNING public_id, owner_id, name, created_at, updated_at;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, ownerID, publicID, attrs.Name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete marks a project as deleted (soft delete). It reports false when no row was affected.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, publicID string) (bool, error) {
	const q = `
UPDATE projects
SET deleted_at = now(), updated_at = now()
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL;
`
	result, err := r.db.ExecContext(ctx, q, ownerID, publicID)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// PurgeDeleted hard-deletes projects soft-deleted before the cutoff.
func (r *ProjectRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	const q = `
DELETE FROM projects
WHERE deleted_at IS NOT NULL AND deleted_at < $1;
`
	result, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, fmt.Errorf("purge projects: %w", err)
	}
	return result.RowsAffected()
}
