package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	projdomain "github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

// taskReq accepts the flat body or the nested {"task": {...}} form.
type taskReq struct {
	domain.Patch
	Task *domain.Patch `json:"task"`
}

func (r taskReq) patch() domain.Patch {
	if r.Task != nil {
		return *r.Task
	}
	return r.Patch
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), userID, c.Query("project_id"))
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": items})
}

func (h *Handler) listForProject(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.svc.ListForProject(c.Request.Context(), userID, c.Param("public_id"))
	if errors.Is(err, projdomain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": projdomain.ErrNotFound.Error()})
		return
	}
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": items})
}

func (h *Handler) show(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	t, err := h.svc.Get(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": t})
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), userID, req.patch())
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": t})
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	t, err := h.svc.Update(c.Request.Context(), userID, c.Param("public_id"), req.patch())
	if err != nil {
		h.fail(c, t, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": t})
}

func (h *Handler) delete(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	t, err := h.svc.Delete(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.fail(c, t, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, t *domain.Task, err error) {
	body := gin.H{"ok": false}
	if t != nil {
		body["task"] = t
	}

	if verr, ok := validation.As(err); ok {
		body["error"] = "validation failed"
		body["errors"] = verr
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrNotPersisted):
		body["error"] = domain.ErrNotPersisted.Error()
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, domain.ErrNotDestroyed):
		body["error"] = domain.ErrNotDestroyed.Error()
		c.JSON(http.StatusUnprocessableEntity, body)
	default:
		logger.FromContext(c.Request.Context()).Error("task request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
