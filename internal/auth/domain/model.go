package domain

import (
	"strings"
	"time"
)

// User represents an account that owns projects and tasks.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirebaseUID  *string    `json:"firebase_uid,omitempty"`
	DisplayName  *string    `json:"display_name,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Confirmed reports whether the account may sign in.
func (u *User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// PasswordMaxBytes is bcrypt's input limit.
const PasswordMaxBytes = 72

// Credentials is the email/password pair used to register and sign in.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Normalize lower-cases and trims the email.
func (c Credentials) Normalize() Credentials {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c
}

// ExternalUser is an identity asserted by an upstream provider (Firebase, dev header).
type ExternalUser struct {
	UID         string
	Email       string
	DisplayName string
}
