package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikemtdev/career-lift/internal/bootstrap"
	"github.com/mikemtdev/career-lift/internal/shared/config"
	"github.com/mikemtdev/career-lift/internal/shared/server"
	"github.com/mikemtdev/career-lift/internal/shared/storage/db"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
)

const (
	shutdownTimeout      = 15 * time.Second
	sessionPruneInterval = time.Hour
)

func main() {
	cfg := config.Load()
	if err := telemetry.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("configure logger: %v", err)
	}
	defer telemetry.Sync()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.DB != nil {
		if err := db.RunMigrations(ctx, app.DB); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
	}

	go pruneSessions(ctx, app)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info("api.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("api.serve", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	telemetry.Info("api.shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown", map[string]any{"error": err})
	}
}

func pruneSessions(ctx context.Context, app *bootstrap.App) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.UsersService.PruneSessions(ctx)
			if err != nil {
				telemetry.Warn("sessions.prune_failed", map[string]any{"error": err})
				continue
			}
			if n > 0 {
				telemetry.Info("sessions.pruned", map[string]any{"count": n})
			}
		}
	}
}
