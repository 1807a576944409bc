package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
)

var projectCols = []string{"public_id", "owner_id", "name", "created_at", "updated_at"}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProjectRepository(db), mock
}

func TestProjectRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("inserts project", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), "owner-1", "valid name").
			WillReturnRows(sqlmock.NewRows(projectCols).AddRow("proj-12345-6789", "owner-1", "valid name", now, now))

		p, err := repo.Create(ctx, "owner-1", domain.Attributes{Name: "valid name"})
		require.NoError(t, err)
		assert.Equal(t, "proj-12345-6789", p.PublicID)
		assert.Equal(t, "owner-1", p.OwnerID)
		assert.Equal(t, "valid name", p.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries on public id collision", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), "owner-1", "valid name").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), "owner-1", "valid name").
			WillReturnRows(sqlmock.NewRows(projectCols).AddRow("proj-22222-3333", "owner-1", "valid name", now, now))

		p, err := repo.Create(ctx, "owner-1", domain.Attributes{Name: "valid name"})
		require.NoError(t, err)
		assert.Equal(t, "proj-22222-3333", p.PublicID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)

		for i := 0; i < publicIDAttempts; i++ {
			mock.ExpectQuery(`INSERT INTO projects`).WillReturnError(&pq.Error{Code: "23505"})
		}

		_, err := repo.Create(ctx, "owner-1", domain.Attributes{Name: "valid name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique project id")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces other errors", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)

		mock.ExpectQuery(`INSERT INTO projects`).WillReturnError(errors.New("connection reset"))

		_, err := repo.Create(ctx, "owner-1", domain.Attributes{Name: "valid name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("requires owner", func(t *testing.T) {
		repo, _ := setupProjectRepo(t)
		_, err := repo.Create(ctx, "", domain.Attributes{Name: "valid name"})
		assert.Error(t, err)
	})
}

func TestProjectRepository_List(t *testing.T) {
	repo, mock := setupProjectRepo(t)
	now := time.Now()

	mock.ExpectQuery(`FROM projects\s+WHERE owner_id = \$1 AND deleted_at IS NULL`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow("proj-2", "owner-1", "second", now, now).
			AddRow("proj-1", "owner-1", "first", now, now))

	items, err := repo.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "proj-2", items[0].PublicID)
	assert.Equal(t, "first", items[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Find(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectQuery(`SELECT public_id, owner_id, name, created_at, updated_at`).
			WithArgs("owner-1", "proj-1").
			WillReturnRows(sqlmock.NewRows(projectCols).AddRow("proj-1", "owner-1", "valid name", now, now))

		p, err := repo.Find(ctx, "owner-1", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, "valid name", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectQuery(`SELECT public_id`).
			WithArgs("owner-1", "missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Find(ctx, "owner-1", "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("renames", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectQuery(`SET name = \$3, updated_at = now\(\)`).
			WithArgs("owner-1", "proj-1", "new name").
			WillReturnRows(sqlmock.NewRows(projectCols).AddRow("proj-1", "owner-1", "new name", now, now))

		p, err := repo.Update(ctx, "owner-1", "proj-1", domain.Attributes{Name: "new name"})
		require.NoError(t, err)
		assert.Equal(t, "proj-1", p.PublicID)
		assert.Equal(t, "new name", p.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectQuery(`SET name = \$3`).
			WithArgs("owner-1", "proj-1", "new name").
			WillReturnRows(sqlmock.NewRows(projectCols))

		_, err := repo.Update(ctx, "owner-1", "proj-1", domain.Attributes{Name: "new name"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft deletes", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectExec(`SET deleted_at = now\(\)`).
			WithArgs("owner-1", "proj-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Delete(ctx, "owner-1", "proj-1")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing affected", func(t *testing.T) {
		repo, mock := setupProjectRepo(t)
		mock.ExpectExec(`SET deleted_at = now\(\)`).
			WithArgs("owner-1", "proj-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(ctx, "owner-1", "proj-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProjectRepository_PurgeDeleted(t *testing.T) {
	repo, mock := setupProjectRepo(t)
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeDeleted(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
