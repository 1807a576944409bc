// Package authtest provides in-memory user and session stores for tests.
package authtest

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

// Users is a map-backed UserStore. Emails are unique.
type Users struct {
	ByID map[string]*domain.User
	seq  int
}

func NewUsers() *Users {
	return &Users{ByID: map[string]*domain.User{}}
}

func (f *Users) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.ByID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	cp := *u
	f.ByID[u.ID] = &cp
	return nil
}

func (f *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.ByID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *Users) Confirm(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	now := time.Now()
	u.ConfirmedAt = &now
	cp := *u
	return &cp, nil
}

func (f *Users) EnsureExternal(_ context.Context, ext domain.ExternalUser) (*domain.User, error) {
	for _, u := range f.ByID {
		if u.FirebaseUID != nil && *u.FirebaseUID == ext.UID {
			cp := *u
			return &cp, nil
		}
	}
	uid := ext.UID
	email := ext.Email
	if email == "" {
		email = uid + "@external.local"
	}
	now := time.Now()
	u := &domain.User{Email: email, FirebaseUID: &uid, ConfirmedAt: &now}
	if err := f.Create(context.Background(), u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *Users) DeleteByEmail(_ context.Context, email string) (bool, error) {
	for id, u := range f.ByID {
		if u.Email == email {
			delete(f.ByID, id)
			return true, nil
		}
	}
	return false, nil
}

// Sessions is a map-backed SessionStore issuing sequential tokens.
type Sessions struct {
	SessionsByToken map[string]string
	Confirmations   map[string]string
	seq             int

	// Set to force the matching operation to fail.
	CreateSessionErr      error
	CreateConfirmationErr error
}

func NewSessions() *Sessions {
	return &Sessions{SessionsByToken: map[string]string{}, Confirmations: map[string]string{}}
}

func (f *Sessions) next() string {
	f.seq++
	return fmt.Sprintf("tok-%d", f.seq)
}

func (f *Sessions) CreateSession(_ context.Context, userID string, _ time.Duration) (string, error) {
	if f.CreateSessionErr != nil {
		return "", f.CreateSessionErr
	}
	t := f.next()
	f.SessionsByToken[t] = userID
	return t, nil
}

func (f *Sessions) SessionUser(_ context.Context, token string) (string, error) {
	uid, ok := f.SessionsByToken[token]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return uid, nil
}

func (f *Sessions) DeleteSession(_ context.Context, token string) error {
	delete(f.SessionsByToken, token)
	return nil
}

func (f *Sessions) DeleteUserSessions(_ context.Context, userID string) error {
	for t, uid := range f.SessionsByToken {
		if uid == userID {
			delete(f.SessionsByToken, t)
		}
	}
	return nil
}

func (f *Sessions) CreateConfirmation(_ context.Context, userID string, _ time.Duration) (string, error) {
	if f.CreateConfirmationErr != nil {
		return "", f.CreateConfirmationErr
	}
	t := f.next()
	f.Confirmations[t] = userID
	return t, nil
}

func (f *Sessions) ConsumeConfirmation(_ context.Context, token string) (string, error) {
	uid, ok := f.Confirmations[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(f.Confirmations, token)
	return uid, nil
}

