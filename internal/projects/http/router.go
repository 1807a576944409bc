package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:public_id", h.show)
	rg.PUT("/:public_id", h.update)
	rg.PATCH("/:public_id", h.update)
	rg.DELETE("/:public_id", h.delete)
}
