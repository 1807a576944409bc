package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

const (
	CtxUserID       = "user_id"
	CtxUser         = "user"
	CtxSessionToken = "session_token"

	SessionCookie = "session_token"
)

// SetUser records the authenticated user on the request.
func SetUser(c *gin.Context, u *domain.User) {
	c.Set(CtxUserID, u.ID)
	c.Set(CtxUser, u)
}

// UserID returns the authenticated user's id, or "" when the request is anonymous.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// CurrentUser returns the authenticated user set by one of the auth middlewares.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// RequireUserID writes a 401 and reports false when no user is attached.
func RequireUserID(c *gin.Context) (string, bool) {
	uid := UserID(c)
	if uid == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return "", false
	}
	return uid, true
}

// TokenFromRequest extracts a session token from the Bearer header or the session cookie.
func TokenFromRequest(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")
	if len(bearer) > 7 && strings.EqualFold(bearer[:7], "Bearer ") {
		return strings.TrimSpace(bearer[7:])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
