package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	// needsConfig loads and validates the environment before run.
	needsConfig bool
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Stdin  io.Reader
	Stdout io.Writer
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	if cmd.needsConfig {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			logger.ErrorContext(cmdCtx.Ctx, "load config", "error", err)
			os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
		}
		cmdCtx.Config = cfg
	}

	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			needsConfig: true,
			run:         runMigrations,
		},
		"migrate-status": {
			name:        "migrate-status",
			description: "List embedded migrations and whether each is applied",
			needsConfig: true,
			run:         runMigrateStatus,
		},
		"purge-local-storage": {
			name:        "purge-local-storage",
			description: "Delete Postgres local storage namespaces idle longer than --idle",
			needsConfig: true,
			run:         runPurgeLocalStorage,
		},
		"obfuscate": {
			name:        "obfuscate",
			description: "Obfuscate a value with VAULT_SECRET (reads stdin when no argument)",
			needsConfig: true,
			run:         runObfuscate,
		},
		"reveal": {
			name:        "reveal",
			description: "Reveal a value obfuscated with VAULT_SECRET (reads stdin when no argument)",
			needsConfig: true,
			run:         runReveal,
		},
		"classify-route": {
			name:        "classify-route",
			description: "Print the access class of one or more paths",
			run:         runClassifyRoute,
		},
		"capabilities": {
			name:        "capabilities",
			description: "Print the UI capabilities granted to a role",
			run:         runCapabilities,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: storefront-admin-cli <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(w, "  %-24s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
