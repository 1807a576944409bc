package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/taskboard/config"
	httpapi "github.com/GoSim-25-26J-441/taskboard/internal/api/http"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	authrepo "github.com/GoSim-25-26J-441/taskboard/internal/auth/repository"
	"github.com/GoSim-25-26J-441/taskboard/internal/bootstrap"
	"github.com/GoSim-25-26J-441/taskboard/internal/cronjob"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	projrepo "github.com/GoSim-25-26J-441/taskboard/internal/projects/repository"
	projservice "github.com/GoSim-25-26J-441/taskboard/internal/projects/service"
	"github.com/GoSim-25-26J-441/taskboard/internal/storage/postgres"
	taskrepo "github.com/GoSim-25-26J-441/taskboard/internal/tasks/repository"
)

const serviceName = "taskboard"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	slog.SetDefault(log)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := postgres.DSN(&cfg.Database)

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.MigrateUp(sqlDB); err != nil {
			return err
		}
		if v, dirty, err := postgres.MigrationVersion(sqlDB); err == nil {
			log.Info("database migrated", "version", v, "dirty", dirty)
		}
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: dsn, MaxConns: int32(cfg.Database.MaxConns)})
	if err != nil {
		return err
	}
	defer pool.Close()

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		AuthMode:    cfg.Auth.Mode,
		SessionTTL:  cfg.Auth.SessionTTL,
		CORSOrigins: cfg.Server.CORSOrigins,
		Users:       authrepo.NewUserRepository(pool),
		Projects:    projrepo.NewProjectRepository(sqlDB),
		Tasks:       taskrepo.NewTaskRepository(sqlDB),
		HealthChecks: []httpapi.Check{
			{Name: "db", Ping: pool.Ping},
			{Name: "redis"},
		},
	}

	switch cfg.Auth.Mode {
	case config.AuthModeSession:
		rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Sessions = authrepo.NewSessionRepository(rdb)
		deps.HealthChecks[1].Ping = redisPing(rdb)
	case config.AuthModeFirebase:
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		deps.Firebase = client
	case config.AuthModeHeader:
		log.Warn("AUTH_MODE=header trusts the X-User-Id header; never expose this server publicly")
	}

	router, err := bootstrap.BuildRouter(deps)
	if err != nil {
		return err
	}

	var scheduler *cronjob.Scheduler
	if cfg.Purge.Schedule != "" {
		scheduler = cronjob.NewScheduler(projservice.NewProjectService(deps.Projects), cfg.Purge.Retention, log)
		if err := scheduler.Start(cfg.Purge.Schedule); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "auth_mode", cfg.Auth.Mode, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}

func redisPing(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
