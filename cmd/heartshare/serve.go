package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/heartshare/internal/api"
	"github.com/erazemk/heartshare/internal/db"
	"github.com/erazemk/heartshare/internal/feed"
	"github.com/erazemk/heartshare/internal/imaging"
	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/visitor"
	"github.com/erazemk/heartshare/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HeartShare server",
	Long: `Run the HTTP server: the web pages, the JSON API under /api and the
live change feed at /api/changes. The database is created on first run.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServerFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		return err
	}
	slog.Info("database ready", "path", cfg.Database)

	secret, err := visitor.LoadSecret(cmd.Context(), database)
	if err != nil {
		slog.Error("failed to get signing secret", "error", err)
		return err
	}

	hub := feed.NewHub()
	svc := &market.Service{
		DB:  database,
		Hub: hub,
		Images: imaging.Options{
			MaxDimension: cfg.ImageMaxDimension,
			Quality:      cfg.ImageQuality,
		},
	}

	handler, err := newHandler(database, svc, secret)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: change feed connections are long lived.
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Hijacked feed connections are not tracked by Shutdown.
		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// newHandler combines the routers: API routes take priority, web routes
// handle the rest.
func newHandler(database *sql.DB, svc *market.Service, secret string) (http.Handler, error) {
	webRouter, err := web.NewRouter(svc, secret)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(svc))
	mux.HandleFunc("GET /healthz", api.Healthz)
	mux.Handle("GET /readyz", api.Readyz(database))
	mux.Handle("/", webRouter)

	return api.LoggingMiddleware(mux), nil
}
