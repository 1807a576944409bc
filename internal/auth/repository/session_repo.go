package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

const (
	sessionKeyPrefix      = "auth:session:"      // auth:session:{token} -> user id
	userSessionsPrefix    = "auth:user_sessions:" // set of tokens per user: auth:user_sessions:{user_id}
	confirmationKeyPrefix = "auth:confirm:"      // auth:confirm:{token} -> user id
)

// SessionRepository stores session and confirmation tokens in Redis.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CreateSession issues a new session token for userID that expires after ttl.
func (r *SessionRepository) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	userKey := userSessionsPrefix + userID
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+token, userID, ttl)
	pipe.SAdd(ctx, userKey, token)
	pipe.Expire(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// SessionUser resolves a session token to its user id.
func (r *SessionRepository) SessionUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrSessionNotFound
	}
	userID, err := r.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a single token. Unknown tokens are ignored.
func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	userID, err := r.SessionUser(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.SRem(ctx, userSessionsPrefix+userID, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions revokes every session of userID.
func (r *SessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	userKey := userSessionsPrefix + userID
	tokens, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKeyPrefix+t)
	}
	keys = append(keys, userKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// CreateConfirmation issues a one-time confirmation token for userID.
func (r *SessionRepository) CreateConfirmation(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, confirmationKeyPrefix+token, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store confirmation: %w", err)
	}
	return token, nil
}

// ConsumeConfirmation returns the user id for token and deletes it.
func (r *SessionRepository) ConsumeConfirmation(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}
	userID, err := r.client.GetDel(ctx, confirmationKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume confirmation: %w", err)
	}
	return userID, nil
}
