package config

import (
	"fmt"
	"strings"
	"time"
)

// StoreBackend selects where a store keeps its data.
type StoreBackend string

const (
	StoreBackendMemory   StoreBackend = "memory"
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis", "postgres":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: memory, redis, postgres)", v)
	}
}

// devVaultSecret is only applied in development mode.
const devVaultSecret = "storefront-admin-dev-secret"

// StorageConfig selects the session and local storage backends.
type StorageConfig struct {
	// Sessions is memory or redis. Postgres is not offered for sessions.
	Sessions StoreBackend `env:"SESSION_STORE" envDefault:"memory"`

	// LocalStorage backs the per-browser key/value namespaces.
	LocalStorage StoreBackend `env:"LOCAL_STORAGE_STORE" envDefault:"memory"`

	// MemorySize caps each in-process store.
	MemorySize int `env:"MEMORY_STORE_SIZE" envDefault:"10000"`

	// LocalStorageIdleTTL expires namespaces that have not been written for this long.
	LocalStorageIdleTTL time.Duration `env:"LOCAL_STORAGE_IDLE_TTL" envDefault:"720h"`

	// VaultSecret keys the obfuscation of remembered credentials.
	VaultSecret string `env:"VAULT_SECRET"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize(isDev bool) {
	if s.Sessions == "" || s.Sessions == StoreBackendPostgres {
		s.Sessions = StoreBackendMemory
	}
	if s.LocalStorage == "" {
		s.LocalStorage = StoreBackendMemory
	}
	if s.MemorySize <= 0 {
		s.MemorySize = 10000
	}
	if s.LocalStorageIdleTTL <= 0 {
		s.LocalStorageIdleTTL = 30 * 24 * time.Hour
	}
	if s.VaultSecret == "" && isDev {
		s.VaultSecret = devVaultSecret
	}
}
