package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sociumlabs/socium/internal/database/migrations"
	"github.com/sociumlabs/socium/internal/rest"
	"github.com/sociumlabs/socium/internal/setup"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Server timeouts.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	ShutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "socium",
		Usage: "Social feed service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the REST API server",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return serve(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run pending database migrations",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runMigrations(ctx, false)
				},
			},
			{
				Name:  "rollback",
				Usage: "Roll back the last database migration group",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runMigrations(ctx, true)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// serve runs the REST server until interrupted.
func serve(ctx context.Context) error {
	app, err := setup.InitializeApp(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	// Create server
	handler := rest.NewServer(app.FeedService, app.ContentService, app.Logger, app.Config)

	// Get server address from config
	addr := fmt.Sprintf("%s:%d", app.Config.API.Host, app.Config.API.Port)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		app.Logger.Info("REST server started", zap.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	app.Logger.Info("Shutting down REST server...")

	// Attempt graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	app.Logger.Info("Server gracefully stopped")

	return nil
}

// runMigrations applies or rolls back schema migrations.
func runMigrations(ctx context.Context, rollback bool) error {
	app, err := setup.InitializeApp(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	migrator := migrate.NewMigrator(app.DB.DB(), migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if rollback {
		group, err := migrator.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}

		if group.IsZero() {
			app.Logger.Info("No migration groups to roll back")
		} else {
			app.Logger.Info("Rolled back migration group", zap.String("group", group.String()))
		}

		return nil
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if group.IsZero() {
		app.Logger.Info("Database is up to date")
	} else {
		app.Logger.Info("Applied migration group", zap.String("group", group.String()))
	}

	return nil
}
