package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/storefront-admin/internal/adapters/postgres"
	"github.com/target/storefront-admin/internal/bootstrap"
	"github.com/target/storefront-admin/internal/migrate"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultPurgeTimeout     = 2 * time.Minute
)

type migrateOptions struct {
	Timeout time.Duration
}

func parseMigrateFlags(name string, args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

// withDB connects to Postgres for the duration of fn.
func withDB(cmdCtx *commandContext, timeout time.Duration, fn func(ctx context.Context, db *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	return fn(ctx, db)
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags("migrate", args)
	if err != nil {
		return err
	}

	return withDB(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runMigrateStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags("migrate-status", args)
	if err != nil {
		return err
	}

	return withDB(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		statuses, statusErr := migrate.Status(ctx, db)
		if statusErr != nil {
			return fmt.Errorf("migration status: %w", statusErr)
		}
		return printMigrationStatus(cmdCtx, statuses)
	})
}

func printMigrationStatus(cmdCtx *commandContext, statuses []migrate.MigrationStatus) error {
	tw := tabwriter.NewWriter(cmdCtx.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "VERSION\tSTATUS\n"); err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		if err := writef(tw, "%s\t%s\n", s.Version, state); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

type purgeOptions struct {
	Idle    time.Duration
	Timeout time.Duration
}

func parsePurgeFlags(args []string, defaultIdle time.Duration) (purgeOptions, error) {
	fs := flag.NewFlagSet("purge-local-storage", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := purgeOptions{}
	fs.DurationVar(&opts.Idle, "idle", defaultIdle, "Delete namespaces not written for at least this long")
	fs.DurationVar(&opts.Timeout, "timeout", defaultPurgeTimeout, "Maximum duration to wait for the purge")

	if err := fs.Parse(args); err != nil {
		return purgeOptions{}, err
	}
	if opts.Idle <= 0 {
		return purgeOptions{}, errors.New("--idle must be greater than zero")
	}
	if opts.Timeout <= 0 {
		return purgeOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runPurgeLocalStorage(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeFlags(args, cmdCtx.Config.Storage.LocalStorageIdleTTL)
	if err != nil {
		return err
	}

	return withDB(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		n, purgeErr := postgres.NewKVStore(db).PurgeIdle(ctx, opts.Idle)
		if purgeErr != nil {
			return fmt.Errorf("purge local storage: %w", purgeErr)
		}
		return writef(cmdCtx.Stdout, "purged %d idle namespace(s) older than %s\n", n, opts.Idle)
	})
}
