package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

const DefaultConfirmationTTL = 24 * time.Hour

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Confirm(ctx context.Context, id string) (*domain.User, error)
	EnsureExternal(ctx context.Context, ext domain.ExternalUser) (*domain.User, error)
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error)
	SessionUser(ctx context.Context, token string) (string, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	CreateConfirmation(ctx context.Context, userID string, ttl time.Duration) (string, error)
	ConsumeConfirmation(ctx context.Context, token string) (string, error)
}

type AuthService struct {
	users           UserStore
	sessions        SessionStore
	sessionTTL      time.Duration
	confirmationTTL time.Duration
	hashCost        int
}

type Option func(*AuthService)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(users UserStore, sessions SessionStore, sessionTTL time.Duration, opts ...Option) *AuthService {
	s := &AuthService{
		users:           users,
		sessions:        sessions,
		sessionTTL:      sessionTTL,
		confirmationTTL: DefaultConfirmationTTL,
		hashCost:        bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unconfirmed user and issues a confirmation token.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.User, string, error) {
	u, err := s.CreateUser(ctx, creds, false)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.CreateConfirmation(ctx, u.ID, s.confirmationTTL)
	if err != nil {
		// Without a token the account could never be confirmed; drop it so the email can register again.
		if _, delErr := s.users.DeleteByEmail(ctx, u.Email); delErr != nil {
			logger.FromContext(ctx).Error("rollback of unconfirmable user failed", "user_id", u.ID, "error", delErr)
		}
		return nil, "", fmt.Errorf("issue confirmation: %w", err)
	}

	logger.FromContext(ctx).Info("confirmation issued", "user_id", u.ID, "email", u.Email, "confirmation_token", token)
	return u, token, nil
}

// CreateUser validates creds and stores a new password user.
func (s *AuthService) CreateUser(ctx context.Context, creds domain.Credentials, confirmed bool) (*domain.User, error) {
	creds = creds.Normalize()
	if err := validation.Struct(creds); err != nil {
		return nil, err
	}
	// bcrypt limits the password in bytes, the validator counts runes.
	if len(creds.Password) > domain.PasswordMaxBytes {
		return nil, passwordTooLong()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, passwordTooLong()
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        creds.Email,
		PasswordHash: string(hash),
	}
	if confirmed {
		now := time.Now().UTC()
		u.ConfirmedAt = &now
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, validation.Errors{"email": {"has already been taken"}}
		}
		return nil, err
	}
	return u, nil
}

// Confirm consumes a confirmation token and marks its user confirmed.
func (s *AuthService) Confirm(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.ConsumeConfirmation(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.Confirm(ctx, userID)
}

// ConfirmByEmail confirms a user without a token (admin use).
func (s *AuthService) ConfirmByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.users.Confirm(ctx, u.ID)
}

// SignIn checks credentials and opens a session. Unconfirmed users are refused.
func (s *AuthService) SignIn(ctx context.Context, creds domain.Credentials) (*domain.User, string, error) {
	creds = creds.Normalize()

	u, err := s.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !u.Confirmed() {
		return nil, "", domain.ErrUnconfirmed
	}

	token, err := s.sessions.CreateSession(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// SignOut revokes the given session token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to a confirmed user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.SessionUser(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.Confirmed() {
		return nil, domain.ErrUnconfirmed
	}
	return u, nil
}

// EnsureExternal upserts a user vouched for by an upstream identity provider.
func (s *AuthService) EnsureExternal(ctx context.Context, ext domain.ExternalUser) (*domain.User, error) {
	return s.users.EnsureExternal(ctx, ext)
}

// DeleteUser removes a user and revokes its sessions. Projects and tasks cascade in the database.
func (s *AuthService) DeleteUser(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.DeleteUserSessions(ctx, u.ID); err != nil {
			return err
		}
	}
	ok, err := s.users.DeleteByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func passwordTooLong() validation.Errors {
	return validation.Errors{"password": {fmt.Sprintf("is too long (maximum is %d characters)", domain.PasswordMaxBytes)}}
}
