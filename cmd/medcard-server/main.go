package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medcard/medcard/internal/config"
	"github.com/medcard/medcard/internal/domain/medicalcard"
	"github.com/medcard/medcard/internal/kvstore"
	"github.com/medcard/medcard/internal/platform/auth"
	"github.com/medcard/medcard/internal/platform/blobstore"
	"github.com/medcard/medcard/internal/platform/db"
	"github.com/medcard/medcard/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medcard-server",
		Short: "Medical clearance card API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the medical card API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// buildStore constructs the configured cache backend. The returned pool is
// nil unless the backend is postgres.
func buildStore(ctx context.Context, cfg *config.Config) (kvstore.Store, *pgxpool.Pool, error) {
	switch cfg.CacheBackend {
	case "file":
		store, err := kvstore.NewFile(cfg.CacheDir)
		return store, nil, err
	case "postgres":
		pool, err := db.NewPool(ctx, db.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewPG(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool, nil
	default:
		return kvstore.NewMemory(), nil, nil
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Cache backend
	ctx := context.Background()
	store, pool, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build cache backend")
	}
	if pool != nil {
		defer pool.Close()
	}
	logger.Info().Str("backend", cfg.CacheBackend).Msg("cache backend ready")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group. Card routes need the hr role; admin always passes.
	apiV1 := e.Group("/api/v1")
	switch cfg.ResolvedAuthMode() {
	case "development":
		apiV1.Use(auth.DevAuthMiddleware(), auth.RequireRole("hr"))
	case "token":
		apiV1.Use(auth.JWTMiddleware(auth.Config{SigningKey: []byte(cfg.AuthSecret)}), auth.RequireRole("hr"))
	}

	// Domain wiring
	blobs := blobstore.NewRegistry("/api/v1/preview-blobs")
	validator := medicalcard.NewValidator(cfg.MaxUploadMB, cfg.AllowedMIMETypes)

	// Cap request bodies slightly above the file limit to leave room for
	// multipart framing; the validator still produces the coded rejection.
	apiV1.Use(echomw.BodyLimit(fmt.Sprintf("%dM", validator.MaxSizeMB()+1)))
	svc := medicalcard.NewService(store, validator, blobs, cfg.ViewerURL, medicalcard.Labels{
		Result:       cfg.ResultLabel,
		Requirements: cfg.RequirementsLabel,
	}, logger)

	medicalcard.NewHandler(svc).RegisterRoutes(apiV1)
	blobstore.NewHandler(blobs).RegisterRoutes(apiV1)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
