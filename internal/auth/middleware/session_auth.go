package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
)

// SessionAuth requires a valid session token from the Bearer header or cookie.
func SessionAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c)
		if token == "" {
			unauthorized(c, "missing authorization token")
			return
		}

		u, err := authn.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSessionNotFound):
			unauthorized(c, "invalid or expired session")
			return
		case errors.Is(err, domain.ErrUnconfirmed):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
			return
		default:
			logger.FromContext(c.Request.Context()).Error("session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "authentication unavailable"})
			return
		}

		auth.SetUser(c, u)
		c.Set(auth.CtxSessionToken, token)
		c.Next()
	}
}
