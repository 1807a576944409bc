package http

import (
	"time"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	sessionTTL  time.Duration
	// exposeTokens returns confirmation tokens in the register response.
	exposeTokens bool
	secureCookie bool
}

func New(authService *service.AuthService, sessionTTL time.Duration, development bool) *Handler {
	return &Handler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		exposeTokens: development,
		secureCookie: !development,
	}
}
