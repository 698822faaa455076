package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"personnel/internal/server/config"
	"personnel/internal/server/httpapi"
	"personnel/internal/server/repository/sqlite"
	"personnel/internal/server/service"
)

type App struct {
	version         string
	buildDate       string
	logger          *zap.Logger
	server          *http.Server
	repo            *sqlite.Repository
	listener        net.Listener
	shutdownTimeout time.Duration
}

func New(version, buildDate string, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo, err := sqlite.New(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	services := service.NewServices(repo)
	router := httpapi.NewRouter(services, logger.Named("http"), httpapi.Options{
		MaxRequestBytes: cfg.MaxRequestBytes,
		CORSOrigins:     cfg.CORSOrigins,
		Health:          repo.Ping,
	})
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &App{
		version:         version,
		buildDate:       buildDate,
		logger:          logger,
		server:          server,
		repo:            repo,
		shutdownTimeout: timeout,
	}, nil
}

// Listen binds the configured address. Serve calls it when needed.
func (a *App) Listen() (net.Addr, error) {
	if a.listener == nil {
		ln, err := net.Listen("tcp", a.server.Addr)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", a.server.Addr, err)
		}
		a.listener = ln
	}
	return a.listener.Addr(), nil
}

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve serves until ctx is done, then shuts down gracefully and closes the
// database.
func (a *App) Serve(ctx context.Context) error {
	defer func() { _ = a.repo.Close() }()
	addr, err := a.Listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.logger.Info("personnel server listening",
		zap.String("addr", addr.String()),
		zap.String("version", a.version),
		zap.String("build_date", a.buildDate),
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server error", zap.Error(err))
			return err
		}
	}

	a.logger.Info("shutting down", zap.Duration("timeout", a.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
