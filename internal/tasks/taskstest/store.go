// Package taskstest provides an in-memory task store with fault injection.
package taskstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/domain"
)

type Store struct {
	mu    sync.Mutex
	seq   int
	tasks []*domain.Task

	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	RefuseDelete bool
	ListErr      error
}

func NewStore() *Store {
	return &Store{}
}

// Seed inserts a task directly, bypassing validation.
func (s *Store) Seed(ownerID string, attrs domain.Attributes) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ownerID, attrs)
}

func (s *Store) insertLocked(ownerID string, attrs domain.Attributes) domain.Task {
	s.seq++
	now := time.Now().UTC()
	t := &domain.Task{
		PublicID:  fmt.Sprintf("task-%05d-0000", s.seq),
		OwnerID:   ownerID,
		CreatedAt: now,
	}
	apply(t, attrs, now)
	s.tasks = append(s.tasks, t)
	return *t
}

func apply(t *domain.Task, attrs domain.Attributes, now time.Time) {
	t.Description = attrs.Description
	t.Completed = attrs.Completed
	t.ProjectID = nil
	if attrs.ProjectID != nil {
		id := *attrs.ProjectID
		t.ProjectID = &id
	}
	t.UpdatedAt = now
}

// Count returns the number of tasks owned by ownerID.
func (s *Store) Count(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

func (s *Store) findLocked(ownerID, publicID string) int {
	for i, t := range s.tasks {
		if t.OwnerID == ownerID && t.PublicID == publicID {
			return i
		}
	}
	return -1
}

func (s *Store) List(_ context.Context, ownerID, projectID string) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]domain.Task, 0)
	for i := len(s.tasks) - 1; i >= 0; i-- {
		t := s.tasks[i]
		if t.OwnerID != ownerID {
			continue
		}
		if projectID != "" && (t.ProjectID == nil || *t.ProjectID != projectID) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *Store) Find(_ context.Context, ownerID, publicID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLocked(ownerID, publicID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	t := *s.tasks[i]
	return &t, nil
}

func (s *Store) Create(_ context.Context, ownerID string, attrs domain.Attributes) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	t := s.insertLocked(ownerID, attrs)
	return &t, nil
}

func (s *Store) Update(_ context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	i := s.findLocked(ownerID, publicID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	apply(s.tasks[i], attrs, time.Now().UTC())
	t := *s.tasks[i]
	return &t, nil
}

func (s *Store) Delete(_ context.Context, ownerID, publicID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	if s.RefuseDelete {
		return false, nil
	}
	i := s.findLocked(ownerID, publicID)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, nil
}
