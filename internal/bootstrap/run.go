package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/observability/statsd"
)

// idlePurgeInterval is how often idle local storage namespaces are swept.
const idlePurgeInterval = time.Hour

// idlePurger deletes local storage namespaces untouched for longer than idle.
type idlePurger interface {
	PurgeIdle(ctx context.Context, idle time.Duration) (int64, error)
}

// Run connects the configured backends, serves HTTP, and blocks until SIGINT/SIGTERM
// or a component fails.
func Run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (err error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.NeedsPostgres() {
		db, err = ConnectDB(ctx, DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close database: %w", closeErr))
			}
		}()
		if cfg.Postgres.RunMigrationsOnStart {
			if migErr := RunMigrations(ctx, db, logger); migErr != nil {
				return migErr
			}
		}
	}

	var rdb redis.UniversalClient
	if cfg.NeedsRedis() {
		rdb, err = ConnectRedis(ctx, DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := rdb.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close redis: %w", closeErr))
			}
		}()
	}

	metricsClient, err := NewMetricsClient(cfg.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := metricsClient.Close(); closeErr != nil {
			logger.Warn("close statsd client failed", "error", closeErr)
		}
	}()

	services, err := NewServices(&ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: rdb,
		Metrics:     metricsClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	handler, err := BuildHTTPHandler(&cfg, services, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gctx, NewHTTPServer(cfg.HTTP.Addr, handler), logger)
	})
	if services.Stores.IdlePurger != nil {
		g.Go(func() error {
			runIdlePurge(gctx, services.Stores.IdlePurger, cfg.Storage.LocalStorageIdleTTL, idlePurgeInterval, logger)
			return nil
		})
	}

	logger.Info("storefront admin started", "auth_mode", string(cfg.Auth.Mode), "dev", cfg.IsDev)
	return g.Wait()
}

// NewMetricsClient returns a StatsD client; it drops everything when metrics are disabled.
func NewMetricsClient(cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	var tags map[string]string
	if cfg.Env != "" {
		tags = map[string]string{"env": cfg.Env}
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.Enabled,
		Address:    cfg.Address,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: tags,
	})
	if err != nil {
		return nil, fmt.Errorf("statsd client: %w", err)
	}
	if client.Enabled() {
		logger.Info("statsd metrics enabled", "addr", cfg.Address, "prefix", cfg.Prefix)
	}
	return client, nil
}

// runIdlePurge sweeps idle namespaces every interval until ctx ends. Failures are logged and retried
// on the next tick.
func runIdlePurge(ctx context.Context, p idlePurger, idle, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeIdle(ctx, idle)
			if err != nil {
				if ctx.Err() == nil {
					logger.WarnContext(ctx, "purge idle local storage failed", "error", err)
				}
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "purged idle local storage", "namespaces", n)
			}
		}
	}
}
