package http

import "github.com/gin-gonic/gin"

// Register mounts the password/session endpoints. requireAuth guards sign_out and me.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/register", h.SignUp)
	rg.POST("/confirm", h.Confirm)
	rg.POST("/sign_in", h.SignIn)
	rg.DELETE("/sign_out", requireAuth, h.SignOut)
	rg.GET("/me", requireAuth, h.Me)
}

// RegisterProfile mounts only /me, for modes where sign-in happens upstream.
func (h *Handler) RegisterProfile(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/me", requireAuth, h.Me)
}
