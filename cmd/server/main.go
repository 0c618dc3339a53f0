package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobportal/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/handler"
	"jobportal/internal/logging"
	"jobportal/internal/media"
	"jobportal/internal/metrics"
	"jobportal/internal/repository"
	"jobportal/internal/router"
	"jobportal/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Job Portal API
// @version 1.0
// @description Job portal backend: user accounts with cookie sessions, company records and job postings.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "json", "error").Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg)
	if err != nil {
		logging.LogError(logger, "database init", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer func() { _ = stores.Close(context.Background()) }()
	logger.Info("store ready", "driver", cfg.StoreDriver, "reset", cfg.ResetDB)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}

	uploader, err := media.NewS3Uploader(ctx, media.S3Config{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		Endpoint:     cfg.S3Endpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		UsePathStyle: cfg.S3UsePathStyle,
		PublicURL:    cfg.MediaPublicURL,
	})
	if err != nil {
		logging.LogError(logger, "media uploader init", err)
		os.Exit(1)
	}

	m := metrics.New()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// Initialize services
	deps := service.Deps{
		Cache:   cacheClient,
		Media:   media.NewAdapter(uploader),
		Metrics: m,
		Logger:  logger,
	}
	authService := service.NewAuthService(stores.Users, hasher, jwtService, tokenStore, deps)
	companyService := service.NewCompanyService(stores.Companies, deps)
	jobService := service.NewJobService(stores.Jobs, stores.Companies, deps)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, router.Dependencies{
		Config:     cfg,
		Logger:     logger,
		JWT:        jwtService,
		TokenStore: tokenStore,
		Metrics:    m,
		Health:     stores.Ping,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cfg.CookieSecure, cfg.MaxUploadBytes),
		User:    handler.NewUserHandler(authService, cfg.MaxUploadBytes),
		Company: handler.NewCompanyHandler(companyService, cfg.MaxUploadBytes),
		Job:     handler.NewJobHandler(jobService),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "server start", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "server shutdown", err)
	}
}
