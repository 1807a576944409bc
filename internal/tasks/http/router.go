package http

import "github.com/gin-gonic/gin"

// Register attaches task routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:public_id", h.show)
	rg.PUT("/:public_id", h.update)
	rg.PATCH("/:public_id", h.update)
	rg.DELETE("/:public_id", h.delete)
}

// RegisterProjectTasks mounts GET /:public_id/tasks on the projects group.
func (h *Handler) RegisterProjectTasks(rg *gin.RouterGroup) {
	rg.GET("/:public_id/tasks", h.listForProject)
}
