package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, cfg, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting storefront admin",
		"addr", cfg.HTTP.Addr,
		"auth_mode", string(cfg.Auth.Mode),
		"session_store", string(cfg.Storage.Sessions),
		"local_storage_store", string(cfg.Storage.LocalStorage),
		"remember_me", cfg.Auth.RememberMeEnabled,
	)
}
