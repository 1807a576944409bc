package domain

import (
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

const DescriptionMaxLength = 10000

// Task is a unit of work owned by one user, optionally filed under a project.
type Task struct {
	PublicID string `json:"id"`
	OwnerID  string `json:"-"`
	// ProjectID is the public id of the owning project, nil when unfiled.
	ProjectID   *string   `json:"project_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Destroyed bool `json:"-"`
}

// Attributes is the full set of writable fields handed to the store.
type Attributes struct {
	Description string  `json:"description" validate:"required,max=10000"`
	Completed   bool    `json:"completed"`
	ProjectID   *string `json:"project_id"`
}

func (a Attributes) Normalize() Attributes {
	a.Description = strings.TrimSpace(a.Description)
	if a.ProjectID != nil {
		id := strings.TrimSpace(*a.ProjectID)
		if id == "" {
			a.ProjectID = nil
		} else {
			a.ProjectID = &id
		}
	}
	return a
}

func (a Attributes) Validate() error {
	return validation.Struct(a.Normalize())
}

// Patch carries the fields present in a request. Nil fields keep their current
// value; an empty ProjectID detaches the task from its project.
type Patch struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	ProjectID   *string `json:"project_id"`
}

// Apply merges p onto base.
func (p Patch) Apply(base Attributes) Attributes {
	if p.Description != nil {
		base.Description = *p.Description
	}
	if p.Completed != nil {
		base.Completed = *p.Completed
	}
	if p.ProjectID != nil {
		id := *p.ProjectID
		base.ProjectID = &id
	}
	return base.Normalize()
}

// AttributesOf returns the writable fields of t.
func AttributesOf(t *Task) Attributes {
	a := Attributes{Description: t.Description, Completed: t.Completed}
	if t.ProjectID != nil {
		id := *t.ProjectID
		a.ProjectID = &id
	}
	return a
}
