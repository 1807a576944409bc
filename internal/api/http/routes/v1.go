package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskboard/internal/api/http/middleware"
	authhttp "github.com/GoSim-25-26J-441/taskboard/internal/auth/http"
	projhttp "github.com/GoSim-25-26J-441/taskboard/internal/projects/http"
	projservice "github.com/GoSim-25-26J-441/taskboard/internal/projects/service"
	taskhttp "github.com/GoSim-25-26J-441/taskboard/internal/tasks/http"
	taskservice "github.com/GoSim-25-26J-441/taskboard/internal/tasks/service"
)

type V1Deps struct {
	RequireUser gin.HandlerFunc
	Auth        *authhttp.Handler
	// SessionRoutes mounts register/confirm/sign_in/sign_out; otherwise only /auth/me.
	SessionRoutes bool
	Projects      *projservice.ProjectService
	Tasks         *taskservice.TaskService
}

func RegisterV1(r gin.IRouter, dep V1Deps) {
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth", middleware.AuthRateLimitMiddleware())
	if dep.SessionRoutes {
		dep.Auth.Register(authGroup, dep.RequireUser)
	} else {
		dep.Auth.RegisterProfile(authGroup, dep.RequireUser)
	}

	protected := api.Group("", dep.RequireUser)

	projectsGroup := protected.Group("/projects")
	projhttp.New(dep.Projects).Register(projectsGroup)

	tasksHandler := taskhttp.New(dep.Tasks)
	tasksHandler.Register(protected.Group("/tasks"))
	tasksHandler.RegisterProjectTasks(projectsGroup)
}
