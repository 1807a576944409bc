package http

import "github.com/GoSim-25-26J-441/taskboard/internal/tasks/service"

type Handler struct {
	svc *service.TaskService
}

func New(svc *service.TaskService) *Handler {
	return &Handler{svc: svc}
}
