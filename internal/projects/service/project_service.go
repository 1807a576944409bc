package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	"github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
)

// Store is the persistence collaborator for projects. Every call is scoped by owner.
type Store interface {
	List(ctx context.Context, ownerID string) ([]domain.Project, error)
	Find(ctx context.Context, ownerID, publicID string) (*domain.Project, error)
	Create(ctx context.Context, ownerID string, attrs domain.Attributes) (*domain.Project, error)
	Update(ctx context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, publicID string) (bool, error)
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	store Store
	now   func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store Store) *ProjectService {
	return &ProjectService{
		store: store,
		now:   time.Now,
	}
}

// List returns all projects for a user
func (s *ProjectService) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.store.List(ctx, userID)
}

// Get returns one of the user's projects or domain.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, userID, publicID string) (*domain.Project, error) {
	return s.store.Find(ctx, userID, publicID)
}

// Create validates attrs and persists a new project. Invalid attributes yield
// validation.Errors and nothing is written.
func (s *ProjectService) Create(ctx context.Context, userID string, attrs domain.Attributes) (*domain.Project, error) {
	attrs = attrs.Normalize()
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, userID, attrs)
	if err != nil {
		logger.FromContext(ctx).Error("project create failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNotPersisted, err)
	}
	return p, nil
}

// Update renames a project. On a validation or store failure the current,
// unchanged record is returned alongside the error.
func (s *ProjectService) Update(ctx context.Context, userID, publicID string, attrs domain.Attributes) (*domain.Project, error) {
	current, err := s.store.Find(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	attrs = attrs.Normalize()
	if err := attrs.Validate(); err != nil {
		return current, err
	}

	p, err := s.store.Update(ctx, userID, publicID, attrs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.FromContext(ctx).Error("project update failed", "user_id", userID, "project_id", publicID, "error", err)
		return current, fmt.Errorf("%w: %v", domain.ErrNotPersisted, err)
	}
	return p, nil
}

// Delete soft-deletes a project. The returned record has Destroyed set on
// success; when the store refuses, the intact record comes back with
// domain.ErrNotDestroyed.
func (s *ProjectService) Delete(ctx context.Context, userID, publicID string) (*domain.Project, error) {
	p, err := s.store.Find(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.Delete(ctx, userID, publicID)
	if err != nil {
		logger.FromContext(ctx).Error("project delete failed", "user_id", userID, "project_id", publicID, "error", err)
		return p, fmt.Errorf("%w: %v", domain.ErrNotDestroyed, err)
	}
	if !ok {
		return p, domain.ErrNotDestroyed
	}

	p.Destroyed = true
	return p, nil
}

// PurgeDeleted hard-deletes projects that were soft-deleted longer than retention ago.
func (s *ProjectService) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.PurgeDeleted(ctx, s.now().Add(-retention))
}
