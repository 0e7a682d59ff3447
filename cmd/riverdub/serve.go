package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riverdub/riverdub/internal/auth"
	"github.com/riverdub/riverdub/internal/config"
	"github.com/riverdub/riverdub/internal/media"
	"github.com/riverdub/riverdub/internal/metrics"
	chiTransport "github.com/riverdub/riverdub/internal/transport/chi"
	authuc "github.com/riverdub/riverdub/internal/usecase/auth"
	cataloguc "github.com/riverdub/riverdub/internal/usecase/catalog"
	healthuc "github.com/riverdub/riverdub/internal/usecase/health"
	videouc "github.com/riverdub/riverdub/internal/usecase/video"
	"github.com/riverdub/riverdub/internal/version"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signalContext()
			defer stop()
			return serve(ctx, cfg, flags.env, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting riverdub API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.db.Close()

	if err := store.db.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	mediaStore, err := media.NewStore(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes())
	if err != nil {
		return fmt.Errorf("open upload dir: %w", err)
	}

	handler, err := buildHandler(cfg, store, mediaStore, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		// Uploads stream through the handler, so the write deadline also bounds them.
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildHandler is the composition root of the HTTP surface.
func buildHandler(cfg config.Config, store *storage, mediaStore *media.Store, logger *zap.Logger) (http.Handler, error) {
	vocab, err := buildVocabulary(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	engine, err := buildEngine(cfg.Search)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Presentation.Location()
	if err != nil {
		return nil, err
	}

	passwordHash := cfg.Auth.AdminPasswordHash
	if passwordHash == "" {
		passwordHash, err = auth.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	tokens := auth.NewTokenService([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTL())

	authSvc := authuc.New(authuc.Credentials{Login: cfg.Auth.AdminUser, PasswordHash: passwordHash}, tokens, nil)
	videoSvc := videouc.New(store.repo, mediaStore, vocab)
	catalogSvc := cataloguc.New(store.repo, engine)
	healthSvc := healthuc.New(store.db, mediaStore)

	metrics.RegisterCatalogMetrics()

	presenter := chiTransport.NewPresenter(vocab, loc, cfg.Presentation.DisplayLayout)
	server := chiTransport.NewServer(videoSvc, catalogSvc, authSvc, healthSvc, presenter, logger, chiTransport.Options{
		MaxUploadBytes: cfg.Storage.MaxUploadBytes(),
		SecureCookie:   cfg.HTTP.SecureCookie,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	if cfg.HTTP.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware("/metrics", "/health"))

	r.Handle(media.URLPrefix+"*", mediaStore.Handler())

	limiter := chiTransport.NewLoginLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.WriteBadRequest,
		WriteMiddleware:  chiTransport.RequireSession(authSvc),
		LoginMiddleware:  limiter.Middleware,
	})
	return r, nil
}
