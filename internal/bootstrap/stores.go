package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/adapters/memory"
	"github.com/target/storefront-admin/internal/adapters/postgres"
	redisadapter "github.com/target/storefront-admin/internal/adapters/redis"
	httpx "github.com/target/storefront-admin/internal/http"
	"github.com/target/storefront-admin/internal/ports"
)

// Key prefixes for Redis-backed stores.
const (
	sessionKeyPrefix      = "storefront:session:"
	localStorageKeyPrefix = "storefront:localstorage:"
)

// StoreDeps groups connections the store backends may need.
type StoreDeps struct {
	Storage     config.StorageConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// Stores holds the selected session and local storage backends.
type Stores struct {
	Sessions     ports.SessionStore
	LocalStorage ports.KVStore
	// IdlePurger is set when the local storage backend needs periodic cleanup of idle namespaces.
	IdlePurger *postgres.KVStore
	// Health reports reachability of the selected backends on /healthz.
	Health []httpx.HealthCheck
}

// BuildStores selects the storage backends named in cfg.
func BuildStores(deps StoreDeps) (Stores, error) {
	var out Stores

	switch deps.Storage.Sessions {
	case config.StoreBackendRedis:
		if deps.RedisClient == nil {
			return out, errors.New("SESSION_STORE=redis requires a redis connection")
		}
		out.Sessions = redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, sessionKeyPrefix)
	default:
		store, err := memory.NewSessionStore(deps.Storage.MemorySize)
		if err != nil {
			return out, fmt.Errorf("memory session store: %w", err)
		}
		out.Sessions = store
	}

	switch deps.Storage.LocalStorage {
	case config.StoreBackendRedis:
		if deps.RedisClient == nil {
			return out, errors.New("LOCAL_STORAGE_STORE=redis requires a redis connection")
		}
		out.LocalStorage = redisadapter.NewKVStore(deps.RedisClient, localStorageKeyPrefix, deps.Storage.LocalStorageIdleTTL)
	case config.StoreBackendPostgres:
		if deps.DB == nil {
			return out, errors.New("LOCAL_STORAGE_STORE=postgres requires a database connection")
		}
		store := postgres.NewKVStore(deps.DB)
		out.LocalStorage = store
		out.IdlePurger = store
	default:
		store, err := memory.NewKVStore(deps.Storage.MemorySize)
		if err != nil {
			return out, fmt.Errorf("memory local storage: %w", err)
		}
		out.LocalStorage = store
	}

	out.Health = []httpx.HealthCheck{
		storeHealthCheck("sessions", deps.Storage.Sessions, deps),
		storeHealthCheck("local_storage", deps.Storage.LocalStorage, deps),
	}

	if deps.Logger != nil {
		deps.Logger.Info("storage backends selected",
			"sessions", string(deps.Storage.Sessions),
			"local_storage", string(deps.Storage.LocalStorage),
		)
	}
	return out, nil
}

func storeHealthCheck(name string, backend config.StoreBackend, deps StoreDeps) httpx.HealthCheck {
	check := httpx.HealthCheck{Name: name, Backend: string(backend)}
	switch backend {
	case config.StoreBackendRedis:
		check.Ping = func(ctx context.Context) error { return deps.RedisClient.Ping(ctx).Err() }
	case config.StoreBackendPostgres:
		check.Ping = deps.DB.PingContext
	default:
		check.Backend = string(config.StoreBackendMemory)
	}
	return check
}
