package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "task-tracker.com/task-tracker/internal/configs"
	httpapi "task-tracker.com/task-tracker/internal/http"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/services"
)

const rateLimitWindow = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Migrates the task schema and starts the task tracker HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := config.CloseDatabase(database); err != nil {
				logger.Warn("failed to close database", zap.Error(err))
			}
		}()

		if err := config.Migrate(database); err != nil {
			return err
		}

		limiter, closeLimiter, err := newLimiter(cfg)
		if err != nil {
			return err
		}
		defer closeLimiter()

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		taskService := services.NewTaskService(repository.NewTaskRepository(database))
		e := httpapi.NewServer(
			httpapi.NewHandler(taskService),
			httpapi.NewHealthHandler(taskService),
			httpapi.RouterConfig{
				Logger:   logger,
				Limiter:  limiter,
				Registry: registry,

				CORSAllowedOrigins: cfg.CORSAllowedOrigins,
				BodyLimit:          cfg.BodyLimit,
			},
		)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
		case err := <-serverErr:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("forced shutdown", zap.Error(err))
			return err
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

// bootstrap loads the environment and installs the process-wide logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	return cfg, logger, nil
}

func newLimiter(cfg config.Config) (middleware.Limiter, func(), error) {
	if cfg.RateLimitBackend != config.RateLimitBackendRedis {
		return middleware.NewMemoryLimiter(cfg.RateLimit, rateLimitWindow), func() {}, nil
	}

	redisClient, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}

	limiter := middleware.NewRedisLimiter(redisClient, cfg.RedisKeyPrefix, cfg.RateLimit, rateLimitWindow)
	return limiter, redisClient.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
