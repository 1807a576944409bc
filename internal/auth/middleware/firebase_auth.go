package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
)

// TokenVerifier is satisfied by *auth.Client from the Firebase Admin SDK.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and upserts the matching user.
func FirebaseAuthMiddleware(verifier TokenVerifier, users ExternalUsers) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			unauthorized(c, "missing authorization token")
			return
		}

		ctx := c.Request.Context()
		decoded, err := verifier.VerifyIDToken(ctx, token)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		ext := domain.ExternalUser{UID: decoded.UID}
		if email, ok := decoded.Claims["email"].(string); ok {
			ext.Email = email
		}
		if name, ok := decoded.Claims["name"].(string); ok {
			ext.DisplayName = name
		}

		u, err := users.EnsureExternal(ctx, ext)
		if err != nil {
			logger.FromContext(ctx).Error("firebase user sync failed", "firebase_uid", decoded.UID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to sync user"})
			return
		}

		auth.SetUser(c, u)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
