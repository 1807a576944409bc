// Package middleware resolves the current user for protected routes. Each
// authenticator attaches the user with auth.SetUser or aborts with 401.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ExternalUsers upserts users asserted by an upstream identity.
type ExternalUsers interface {
	EnsureExternal(ctx context.Context, ext domain.ExternalUser) (*domain.User, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
