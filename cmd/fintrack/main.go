package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger).CreateBackend(startCtx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// A nil *amqp.Client must not reach the services as a non-nil interface.
	var publisher services.EventPublisher
	amqpClient := cli.ConnectAMQP(startCtx, logger, cfg, 3)
	if amqpClient != nil {
		publisher = amqpClient
	}

	userCache := cache.NewLRUCache[core.User](1000, 10*time.Minute)
	caches := cache.NewManager(logger.Logger)
	caches.Register("users", userCache)
	caches.StartCleanup(5 * time.Minute)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	svc := apphttp.Services{
		Auth:      services.NewAuthService(store.Store, tokens, userCache),
		Incomes:   services.NewIncomeService(store.Store, publisher),
		Expenses:  services.NewExpenseService(store.Store, publisher),
		Goals:     services.NewGoalService(store.Store),
		Dashboard: services.NewDashboardService(store.Store, store.Store, services.RecentPolicy(cfg.DashboardRecentPolicy)),
	}

	rl := ratelimit.DefaultConfig()
	rl.RequestsPerSecond = cfg.RateLimitRPS
	rl.Burst = cfg.RateLimitBurst

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		ClientURL:      cfg.ClientURL,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimit:      rl,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		TrustedProxies: cfg.TrustedProxies,
	}, svc, tokens, store.Store, logger)
	if err != nil {
		logger.Error("Failed to create HTTP server", log.FieldError, err)
		os.Exit(1)
	}
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		var errs []error
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		caches.Stop()
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		if store.Cleanup != nil {
			errs = append(errs, store.Cleanup())
		}
		if err := errors.Join(errs...); err != nil {
			logger.Error("Shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"recent_policy", cfg.DashboardRecentPolicy,
		"events_enabled", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
