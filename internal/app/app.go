// Package app wires the configured storage, use cases and HTTP router and
// runs the server until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/postgres"
	"github.com/vadimbarashkov/shortlink/pkg/token"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortlink/internal/adapter/delivery/http"
	pgrepo "github.com/vadimbarashkov/shortlink/internal/adapter/repository/postgres"
)

const shutdownTimeout = 10 * time.Second

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	handler, closeStore, err := NewHandler(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeStore()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage),
		)

		switch {
		case cfg.Env == config.EnvProd && cfg.HTTPServer.CertFile != "":
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// NewHandler opens the configured storage and builds the API router on top
// of it. The returned func releases the storage.
func NewHandler(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (http.Handler, func(), error) {
	const op = "app.NewHandler"

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		authUseCase *usecase.AuthUseCase
		linkUseCase *usecase.LinkUseCase
		closeStore  = func() {}
	)

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data will be lost on exit")

		db := memory.New()
		authUseCase = usecase.NewAuthUseCase(memory.NewUserRepository(db), tokens)
		linkUseCase = usecase.NewLinkUseCase(
			memory.NewLinkRepository(db),
			memory.NewVisitRepository(db),
			cfg.BaseURL,
			cfg.SlugLength,
		)
	default:
		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		if err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		closeStore = func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("err", err))
			}
		}

		authUseCase = usecase.NewAuthUseCase(pgrepo.NewUserRepository(db), tokens)
		linkUseCase = usecase.NewLinkUseCase(
			pgrepo.NewLinkRepository(db),
			pgrepo.NewVisitRepository(db),
			cfg.BaseURL,
			cfg.SlugLength,
		)
	}

	router := delivery.NewRouter(logger, delivery.RouterConfig{
		CORSOrigin:        cfg.HTTPServer.CORSOrigin,
		RateLimitRequests: cfg.HTTPServer.RateLimit.Requests,
		RateLimitWindow:   cfg.HTTPServer.RateLimit.Window,
	}, authUseCase, linkUseCase)

	return router, closeStore, nil
}
