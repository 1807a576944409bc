// Package projectstest provides an in-memory project store with fault
// injection for exercising the service and HTTP layers.
package projectstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
)

type record struct {
	project   domain.Project
	deletedAt *time.Time
}

// Store is a thread-safe in-memory implementation of service.Store.
type Store struct {
	mu      sync.Mutex
	seq     int
	records []*record

	// Set these to force the matching operation to fail.
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	RefuseDelete bool
	ListErr      error

	UpdateCalls []domain.Attributes
}

func NewStore() *Store {
	return &Store{}
}

// Seed inserts a project directly, bypassing validation.
func (s *Store) Seed(ownerID, name string) domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ownerID, name)
}

func (s *Store) insertLocked(ownerID, name string) domain.Project {
	s.seq++
	now := time.Now().UTC()
	p := domain.Project{
		PublicID:  fmt.Sprintf("proj-%05d-0000", s.seq),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records = append(s.records, &record{project: p})
	return p
}

// Count returns the number of live projects owned by ownerID.
func (s *Store) Count(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.project.OwnerID == ownerID && r.deletedAt == nil {
			n++
		}
	}
	return n
}

func (s *Store) findLocked(ownerID, publicID string) *record {
	for _, r := range s.records {
		if r.project.OwnerID == ownerID && r.project.PublicID == publicID && r.deletedAt == nil {
			return r
		}
	}
	return nil
}

func (s *Store) List(_ context.Context, ownerID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]domain.Project, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.project.OwnerID == ownerID && r.deletedAt == nil {
			out = append(out, r.project)
		}
	}
	return out, nil
}

func (s *Store) Find(_ context.Context, ownerID, publicID string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.findLocked(ownerID, publicID)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	p := r.project
	return &p, nil
}

func (s *Store) Create(_ context.Context, ownerID string, attrs domain.Attributes) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	p := s.insertLocked(ownerID, attrs.Name)
	return &p, nil
}

func (s *Store) Update(_ context.Context, ownerID, publicID string, attrs domain.Attributes) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls = append(s.UpdateCalls, attrs)
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	r := s.findLocked(ownerID, publicID)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.project.Name = attrs.Name
	r.project.UpdatedAt = time.Now().UTC()
	p := r.project
	return &p, nil
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
	r := s.findLocked(ownerID, publicID)
	if r == nil {
		return false, nil
	}
	now := time.Now().UTC()
	r.deletedAt = &now
	return true, nil
}

func (s *Store) PurgeDeleted(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var n int64
	for _, r := range s.records {
		if r.deletedAt != nil && r.deletedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}
