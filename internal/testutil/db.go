// Package testutil provides Postgres and Redis fixtures for integration tests. Tests skip when
// the service is unreachable unless TEST_REQUIRE_INFRA (or the per-service variable) is set.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver
	"github.com/target/storefront-admin/internal/migrate"
)

// TestDBConfig locates the integration test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DefaultTestDBConfig reads TEST_DB_* and defaults to the docker-compose test profile (port 55432).
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "storefront"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "storefront"),
		Name:     getEnvOrDefault("TEST_DB_NAME", "storefront"),
	}
}

// DSN returns a pgx connection URL, optionally pinned to schema via search_path.
func (c TestDBConfig) DSN(schema string) string {
	q := url.Values{}
	q.Set("sslmode", getEnvOrDefault("TEST_DB_SSL_MODE", "disable"))
	if schema != "" {
		q.Set("search_path", schema)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// WithAutoDB runs fn against a fresh, migrated schema that is dropped when the test ends.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	fn(SetupSchemaDB(t))
}

// SetupSchemaDB returns a connection scoped to a new migrated schema.
func SetupSchemaDB(t testing.TB) *sql.DB {
	t.Helper()
	cfg := DefaultTestDBConfig()

	admin := openAndPing(t, cfg.DSN(""))
	t.Cleanup(func() { closeAndLog(t, "admin db", admin) })

	schema := "t_" + randomHex(6)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
	})

	db := openAndPing(t, cfg.DSN(schema))
	// One connection keeps every statement on the same search_path.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { closeAndLog(t, "schema db", db) })

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

func openAndPing(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		skipOrFail(t, requireDB(), "test database not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		closeAndLog(t, "test db", db)
		skipOrFail(t, requireDB(), "test database not available: %v", err)
	}
	return db
}

func skipOrFail(t testing.TB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func closeAndLog(t testing.TB, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
