package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/taskboard/config"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
	authrepo "github.com/GoSim-25-26J-441/taskboard/internal/auth/repository"
	authservice "github.com/GoSim-25-26J-441/taskboard/internal/auth/service"
	"github.com/GoSim-25-26J-441/taskboard/internal/bootstrap"
	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
	"github.com/GoSim-25-26J-441/taskboard/internal/storage/postgres"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskboard-admin",
		Short:         "Taskboard administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newUsersCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(cfg.App.Environment, cfg.App.LogLevel))
	return cfg, nil
}

func withSQL(ctx context.Context, fn func(db *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// withAuth builds an AuthService on the user pool. Sessions are attached when
// redis is reachable so deletes also revoke them.
func withAuth(ctx context.Context, fn func(svc *authservice.AuthService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		return err
	}
	defer pool.Close()

	var sessions authservice.SessionStore
	if cfg.Auth.Mode == config.AuthModeSession {
		rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, sessions will not be revoked", "error", err)
		} else {
			defer rdb.Close()
			sessions = authrepo.NewSessionRepository(rdb)
		}
	}

	return fn(authservice.NewAuthService(authrepo.NewUserRepository(pool), sessions, cfg.Auth.SessionTTL))
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(cmd.Context(), func(db *sql.DB) error {
				if err := postgres.MigrateUp(db); err != nil {
					return err
				}
				return printVersion(cmd, db)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(cmd.Context(), func(db *sql.DB) error {
				if err := postgres.MigrateDown(db, steps); err != nil {
					return err
				}
				return printVersion(cmd, db)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(cmd.Context(), func(db *sql.DB) error {
				return printVersion(cmd, db)
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func printVersion(cmd *cobra.Command, db *sql.DB) error {
	v, dirty, err := postgres.MigrationVersion(db)
	if err != nil {
		return err
	}
	cmd.Printf("schema version %d (dirty=%t)\n", v, dirty)
	return nil
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var (
		email     string
		password  string
		confirmed bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a password user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuth(cmd.Context(), func(svc *authservice.AuthService) error {
				u, err := svc.CreateUser(cmd.Context(), domain.Credentials{Email: email, Password: password}, confirmed)
				if err != nil {
					return err
				}
				cmd.Printf("created user %s (%s) confirmed=%t\n", u.Email, u.ID, u.Confirmed())
				return nil
			})
		},
	}
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "password (8-72 characters)")
	create.Flags().BoolVar(&confirmed, "confirmed", false, "mark the account as confirmed")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	confirm := &cobra.Command{
		Use:   "confirm <email>",
		Short: "Confirm an account without a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuth(cmd.Context(), func(svc *authservice.AuthService) error {
				u, err := svc.ConfirmByEmail(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("confirm %s: %w", args[0], err)
				}
				cmd.Printf("confirmed %s\n", u.Email)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an account with its projects and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuth(cmd.Context(), func(svc *authservice.AuthService) error {
				if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete %s: %w", args[0], err)
				}
				cmd.Printf("deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(create, confirm, del)
	return cmd
}
