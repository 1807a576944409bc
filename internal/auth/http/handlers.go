package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	User     *struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

func (r credentialsReq) credentials() domain.Credentials {
	if r.User != nil {
		return domain.Credentials{Email: r.User.Email, Password: r.User.Password}
	}
	return domain.Credentials{Email: r.Email, Password: r.Password}
}

// SignUp creates an unconfirmed account.
func (h *Handler) SignUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.credentials())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"ok": true, "user": user}
	if h.exposeTokens {
		resp["confirmation_token"] = token
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Confirm(c *gin.Context) {
	var req struct {
		Token string `json:"confirmation_token"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}
	if req.Token == "" {
		req.Token = c.Query("confirmation_token")
	}
	if strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": domain.ErrInvalidToken.Error()})
		return
	}

	user, err := h.authService.Confirm(c.Request.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user, token, err := h.authService.SignIn(c.Request.Context(), req.credentials())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user, "token": token})
}

func (h *Handler) SignOut(c *gin.Context) {
	token := c.GetString(auth.CtxSessionToken)
	if token == "" {
		token = auth.TokenFromRequest(c)
	}
	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if verr, ok := validation.As(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "validation failed", "errors": verr})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUnconfirmed):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": domain.ErrInvalidToken.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error("auth request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
