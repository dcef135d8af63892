// Package main is the entrypoint for the users service.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/taskmesh/taskmesh/internal/app"
	"github.com/taskmesh/taskmesh/internal/config"
	"github.com/taskmesh/taskmesh/internal/logging"
	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/server"
	"github.com/taskmesh/taskmesh/internal/store"
)

func main() {
	cfg, err := config.LoadService(config.DefaultUsersPort)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "users")

	users := store.NewMemory[model.User]()
	h := app.NewUsersService(cfg.Common, users, logger, metrics.NewInMemory())

	srv := server.New(h, cfg.Common, logger)

	logger.Info("starting users service",
		"port", cfg.Port,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
