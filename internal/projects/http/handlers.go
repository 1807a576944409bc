package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	"github.com/GoSim-25-26J-441/taskboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/validation"
)

// projectReq accepts both {"name": ...} and the nested {"project": {"name": ...}} form.
type projectReq struct {
	Name    *string `json:"name"`
	Project *struct {
		Name *string `json:"name"`
	} `json:"project"`
}

func (r projectReq) attributes() domain.Attributes {
	switch {
	case r.Name != nil:
		return domain.Attributes{Name: *r.Name}
	case r.Project != nil && r.Project.Name != nil:
		return domain.Attributes{Name: *r.Project.Name}
	default:
		return domain.Attributes{}
	}
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) show(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), userID, req.attributes())
	if err != nil {
		h.fail(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, c.Param("public_id"), req.attributes())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Delete(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.fail(c, p, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps a service error onto the response. Rejected writes are 422 and
// echo the unchanged record when there is one.
func (h *Handler) fail(c *gin.Context, p *domain.Project, err error) {
	body := gin.H{"ok": false}
	if p != nil {
		body["project"] = p
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
		logger.FromContext(c.Request.Context()).Error("project request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
