package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/ipl-fantasy/roster/api"
	"github.com/ipl-fantasy/roster/internal/api"
	"github.com/ipl-fantasy/roster/internal/api/handler"
	"github.com/ipl-fantasy/roster/internal/config"
	"github.com/ipl-fantasy/roster/internal/database"
	"github.com/ipl-fantasy/roster/internal/schedule"
	"github.com/ipl-fantasy/roster/internal/team"
	"github.com/ipl-fantasy/roster/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	st, err := openStorage(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	router, err := api.NewRouter(api.RouterDeps{
		DBPinger:       st.pinger,
		StorageDriver:  cfg.StorageDriver,
		Version:        cfg.Version,
		Users:          user.NewService(st.users),
		Teams:          team.NewService(st.teams),
		Schedule:       schedule.NewLookup(cfg.SchedulePath),
		MaxUploadBytes: cfg.MaxUploadBytes,
		OpenAPISpec:    specpkg.OpenAPISpec,
	})
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting roster server",
			"port", cfg.Port,
			"version", cfg.Version,
			"storage", cfg.StorageDriver,
			"schedule", cfg.SchedulePath,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		st.close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		st.close()
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(h))
}

// storage is the persistence backend selected by STORAGE_DRIVER.
type storage struct {
	users  user.Repository
	teams  team.Store
	pinger handler.DBPinger
	close  func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage; data is lost on exit")
		users := user.NewMemoryRepository()
		return &storage{
			users: users,
			teams: team.NewMemoryStore(users),
			close: func() {},
		}, nil

	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := database.Open(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("database schema ready")

		return &storage{
			users:  user.NewRepository(db.Pool()),
			teams:  team.NewStore(db.Pool()),
			pinger: db,
			close:  db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
