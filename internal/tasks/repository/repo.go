package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/taskboard/internal/projects/utils"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/domain"
)

const (
	uniqueViolation  = "23505"
	publicIDAttempts = 5
)

// taskSelect projects a task row plus the public id of its live project.
const taskSelect = `
SELECT t.public_id, t.owner_id, p.public_id, t.description, t.completed, t.created_at, t.updated_at
FROM t
LEFT JOIN projects p ON p.id = t.project_id AND p.deleted_at IS NULL
`

// projectRef resolves a project public id owned by $1 to its internal id.
const projectRef = `(SELECT id FROM projects WHERE owner_id = $1 AND public_id = %s AND deleted_at IS NULL)`

// TaskRepository stores tasks in Postgres.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.PublicID, &t.OwnerID, &t.ProjectID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task. An unknown ProjectID is stored as no project; callers
// check existence beforehand.
func (r *TaskRepository) Create(ctx context.Context, ownerID string, attrs domain.Attributes) (*domain.Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}

	q := `
WITH t AS (
	INSERT INTO tasks (public_id, owner_id, project_id, description, completed)
	VALUES ($2, $1, ` + fmt.Sprintf(projectRef, "$3") + `, $4, $5)
	RETURNING *
)` + taskSelect + `;`

	for i := 0; i < publicIDAttempts; i++ {
		publicID, err := utils.NewTextID(utils.TaskIDPrefix)
		if err != nil {
			return nil, err
		}

		t, err := scanTask(r.db.QueryRowContext(ctx, q, ownerID, publicID, attrs.ProjectID, attrs.Description, attrs.Completed))
		if err == nil {
			return t, nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			continue
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return nil, fmt.Errorf("failed to generate unique task id")
}

// List returns the owner's tasks, newest first. A non-empty projectID limits
// the result to that project.
func (r *TaskRepository) List(ctx context.Context, ownerID, projectID string) ([]domain.Task, error) {
	q := `
WITH t AS (SELECT * FROM tasks WHERE owner_id = $1)` + taskSelect + `
ORDER BY t.created_at DESC, t.id DESC;`
	args := []any{ownerID}
	if projectID != "" {
		q = `
WITH t AS (SELECT * FROM tasks WHERE owner_id = $1)` + taskSelect + `
WHERE p.public_id = $2
ORDER BY t.created_at DESC, t.id DESC;`
		args = append(args, projectID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepository) Find(ctx context.Context, ownerID, publicID string) (*domain.Task, error) {
	q := `
WITH t AS (SELECT * FROM tasks WHERE owner_id = $1 AND public_id = $2)` + taskSelect + `;`

	t, err := scanTask(r.db.QueryRowContext(ctx, q, ownerID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

// Update overwrites every writable field of the task.
func (r *TaskRepository) Update(ctx context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Task, error) {
	q := `
WITH t AS (
	UPDATE tasks
	SET project_id = ` + fmt.Sprintf(projectRef, "$3") + `, description = $4, completed = $5, updated_at = now()
	WHERE owner_id = $1 AND public_id = $2
	RETURNING *
)` + taskSelect + `;`

	t, err := scanTask(r.db.QueryRowContext(ctx, q, ownerID, publicID, attrs.ProjectID, attrs.Description, attrs.Completed))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// Delete removes the task. It reports false when no row was affected.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, publicID string) (bool, error) {
	const q = `DELETE FROM tasks WHERE owner_id = $1 AND public_id = $2;`

	result, err := r.db.ExecContext(ctx, q, ownerID, publicID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
