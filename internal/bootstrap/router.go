package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoSim-25-26J-441/taskboard/config"
	httpapi "github.com/GoSim-25-26J-441/taskboard/internal/api/http"
	"github.com/GoSim-25-26J-441/taskboard/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/taskboard/internal/api/http/routes"
	authhttp "github.com/GoSim-25-26J-441/taskboard/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/taskboard/internal/auth/middleware"
	authservice "github.com/GoSim-25-26J-441/taskboard/internal/auth/service"
	projservice "github.com/GoSim-25-26J-441/taskboard/internal/projects/service"
	taskservice "github.com/GoSim-25-26J-441/taskboard/internal/tasks/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Environment string
	AuthMode    string
	SessionTTL  time.Duration
	CORSOrigins []string

	Users    authservice.UserStore
	Sessions authservice.SessionStore
	Projects projservice.Store
	Tasks    taskservice.Store
	// Firebase is required when AuthMode is firebase.
	Firebase authmw.TokenVerifier

	HealthChecks []httpapi.Check
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(), middleware.Metrics())

	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, authmw.UserIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.HealthChecks...).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authSvc := authservice.NewAuthService(dep.Users, dep.Sessions, dep.SessionTTL)

	var requireUser gin.HandlerFunc
	switch dep.AuthMode {
	case config.AuthModeSession:
		if dep.Sessions == nil {
			return nil, fmt.Errorf("session auth requires a session store")
		}
		requireUser = authmw.SessionAuth(authSvc)
	case config.AuthModeFirebase:
		if dep.Firebase == nil {
			return nil, fmt.Errorf("firebase auth requires a token verifier")
		}
		requireUser = authmw.FirebaseAuthMiddleware(dep.Firebase, authSvc)
	case config.AuthModeHeader:
		requireUser = authmw.HeaderAuth(authSvc)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", dep.AuthMode)
	}

	projects := projservice.NewProjectService(dep.Projects)

	routes.RegisterV1(r, routes.V1Deps{
		RequireUser:   requireUser,
		Auth:          authhttp.New(authSvc, dep.SessionTTL, dep.Environment == "development"),
		SessionRoutes: dep.AuthMode == config.AuthModeSession,
		Projects:      projects,
		Tasks:         taskservice.NewTaskService(dep.Tasks, projects),
	})

	return r, nil
}
