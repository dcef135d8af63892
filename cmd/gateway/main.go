// Package main is the entrypoint for the API gateway.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/taskmesh/taskmesh/internal/app"
	"github.com/taskmesh/taskmesh/internal/cache"
	"github.com/taskmesh/taskmesh/internal/config"
	"github.com/taskmesh/taskmesh/internal/logging"
	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadGateway()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "gateway")

	opts := app.GatewayOptions{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewInMemory(),
	}

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		opts.Cache = cacheClient
		logger.Info("connected to Redis")
	}

	h, err := app.NewGateway(opts)
	if err != nil {
		logger.Error("failed to build gateway", "error", err)
		os.Exit(1)
	}

	srv := server.New(h, cfg.Common, logger)
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting gateway",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"users", cfg.UsersServiceURL,
		"tasks", cfg.TasksServiceURL,
		"comments", cfg.CommentsServiceURL,
		"rate_limit", cfg.RateLimitEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
