package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	projdomain "github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

type Store interface {
	List(ctx context.Context, ownerID, projectID string) ([]domain.Task, error)
	Find(ctx context.Context, ownerID, publicID string) (*domain.Task, error)
	Create(ctx context.Context, ownerID string, attrs domain.Attributes) (*domain.Task, error)
	Update(ctx context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, publicID string) (bool, error)
}

// ProjectLookup resolves a project owned by a user. *projects/service.ProjectService satisfies it.
type ProjectLookup interface {
	Get(ctx context.Context, userID, publicID string) (*projdomain.Project, error)
}

type TaskService struct {
	store    Store
	projects ProjectLookup
}

func NewTaskService(store Store, projects ProjectLookup) *TaskService {
	return &TaskService{store: store, projects: projects}
}

func (s *TaskService) List(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	return s.store.List(ctx, userID, projectID)
}

// ListForProject returns the tasks of one project, or projdomain.ErrNotFound.
func (s *TaskService) ListForProject(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, userID, projectID)
}

func (s *TaskService) Get(ctx context.Context, userID, publicID string) (*domain.Task, error) {
	return s.store.Find(ctx, userID, publicID)
}

func (s *TaskService) Create(ctx context.Context, userID string, patch domain.Patch) (*domain.Task, error) {
	attrs := patch.Apply(domain.Attributes{})
	if err := s.validate(ctx, userID, attrs); err != nil {
		return nil, err
	}

	t, err := s.store.Create(ctx, userID, attrs)
	if err != nil {
		logger.FromContext(ctx).Error("task create failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNotPersisted, err)
	}
	return t, nil
}

// Update merges patch onto the stored task. Failures return the unchanged task.
func (s *TaskService) Update(ctx context.Context, userID, publicID string, patch domain.Patch) (*domain.Task, error) {
	current, err := s.store.Find(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	attrs := patch.Apply(domain.AttributesOf(current))
	if err := s.validate(ctx, userID, attrs); err != nil {
		return current, err
	}

	t, err := s.store.Update(ctx, userID, publicID, attrs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.FromContext(ctx).Error("task update failed", "user_id", userID, "task_id", publicID, "error", err)
		return current, fmt.Errorf("%w: %v", domain.ErrNotPersisted, err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, publicID string) (*domain.Task, error) {
	t, err := s.store.Find(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.Delete(ctx, userID, publicID)
	if err != nil {
		logger.FromContext(ctx).Error("task delete failed", "user_id", userID, "task_id", publicID, "error", err)
		return t, fmt.Errorf("%w: %v", domain.ErrNotDestroyed, err)
	}
	if !ok {
		return t, domain.ErrNotDestroyed
	}

	t.Destroyed = true
	return t, nil
}

// validate checks attrs and that a referenced project belongs to the user.
func (s *TaskService) validate(ctx context.Context, userID string, attrs domain.Attributes) error {
	verr := validation.Errors{}
	if err := attrs.Validate(); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		verr = fieldErrs
	}

	if attrs.ProjectID != nil {
		_, err := s.projects.Get(ctx, userID, *attrs.ProjectID)
		switch {
		case errors.Is(err, projdomain.ErrNotFound):
			verr.Add("project_id", "must exist")
		case err != nil:
			return err
		}
	}

	if len(verr) > 0 {
		return verr
	}
	return nil
}
