package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
)

const (
	UserIDHeader  = "X-User-Id"
	DefaultUserID = "demo-user"
)

// HeaderAuth trusts the X-User-Id header. Development only.
func HeaderAuth(users ExternalUsers) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if uid == "" {
			uid = DefaultUserID
		}

		ctx := c.Request.Context()
		u, err := users.EnsureExternal(ctx, domain.ExternalUser{UID: uid, DisplayName: uid})
		if err != nil {
			logger.FromContext(ctx).Error("header user sync failed", "uid", uid, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to sync user"})
			return
		}

		auth.SetUser(c, u)
		c.Next()
	}
}
