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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/relhist/relhist/internal/adapter/driven/github"
	httphandler "github.com/relhist/relhist/internal/adapter/driving/http"
	webhandler "github.com/relhist/relhist/internal/adapter/driving/web"
	"github.com/relhist/relhist/internal/application"
	"github.com/relhist/relhist/internal/config"
	"github.com/relhist/relhist/internal/domain/model"
	"github.com/relhist/relhist/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"token_configured", cfg.HasToken(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Create the GitHub release source (nil until a token is supplied via API).
	var source driven.ReleaseSource
	if cfg.HasToken() {
		source = githubadapter.NewClient(cfg.GitHubToken)
		slog.Info("github client created")
	} else {
		slog.Info("no github token configured, set one via POST /api/v1/token")
	}
	provider := application.NewSourceProvider(source)

	// 4. Create the session registry.
	registry := application.NewRegistry(provider, model.DefaultPalette())

	// 5. Register API and web routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(registry, provider, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(registry, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("relhist started", "listen_addr", cfg.ListenAddr)

	// 6. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
