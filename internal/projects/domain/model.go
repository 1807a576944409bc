package domain

import (
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

const (
	NameMinLength = 3
	NameMaxLength = 255
)

// Project is a named container owned by exactly one user.
// It is storage-agnostic and used across repository, service and HTTP layers.
type Project struct {
	PublicID  string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Destroyed is set once a delete has been accepted by the store.
	Destroyed bool `json:"-"`
}

// Attributes are the user-editable fields of a project.
type Attributes struct {
	Name string `json:"name" validate:"required,min=3,max=255"`
}

// Normalize trims surrounding whitespace.
func (a Attributes) Normalize() Attributes {
	a.Name = strings.TrimSpace(a.Name)
	return a
}

// Validate checks the normalized attributes.
func (a Attributes) Validate() error {
	return validation.Struct(a.Normalize())
}
