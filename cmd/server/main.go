// Package main implements the entry point for the task API server, a
// task-tracking record store exposed over HTTP.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/taskforge/task-api/internal/config"
	"github.com/taskforge/task-api/internal/health"
	"github.com/taskforge/task-api/internal/metrics"
	"github.com/taskforge/task-api/internal/platform/logger"
	"github.com/taskforge/task-api/internal/platform/memory"
	"github.com/taskforge/task-api/internal/platform/postgres"
	"github.com/taskforge/task-api/internal/redact"
	"github.com/taskforge/task-api/internal/service"
	"github.com/taskforge/task-api/internal/store"
)

const healthProbeTimeout = 2 * time.Second

// application bundles the long-lived dependencies wired at startup.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB // nil for the memory backend
	taskStore   store.TaskStore
	taskService service.TaskService
	collector   *metrics.Collector
	evaluator   *health.Evaluator
}

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up|down|status) and exit")
	flag.Parse()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := runMigrations(app.config, *migrateCmd); err != nil {
			app.logger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		app.logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and wires application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"backend", cfg.Database.Backend,
		"database_url", redact.URL(cfg.Database.URL))

	app := &application{
		config:    cfg,
		logger:    appLogger,
		collector: metrics.NewCollector(),
	}

	switch cfg.Database.Backend {
	case "memory":
		app.taskStore = memory.NewMemoryTaskStore()
	default:
		db, err := setupDatabase(cfg, appLogger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.taskStore = postgres.NewPostgresTaskStore(db, appLogger, cfg.Database.QueryTimeout)
	}

	app.taskService = service.NewTaskService(app.taskStore, appLogger)
	app.evaluator = health.NewEvaluator(app.taskStore, healthProbeTimeout, appLogger)

	return app, nil
}

// setupDatabase establishes the database connection and configures the pool.
// Each request borrows a pooled connection only for the duration of its
// queries; the pool reclaims it on every exit path.
func setupDatabase(cfg *config.Config, appLogger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	appLogger.Info("Database connection established")
	return db, nil
}

// cleanup releases long-lived resources on shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}

// startHTTPServer starts the HTTP server with graceful shutdown support.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		app.config.Server.ShutdownTimeout,
	)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
