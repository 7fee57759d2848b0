package vault

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/storefront-admin/internal/ports"
)

// SecureStorage stores obfuscated values in a KVStore. Failures are logged and
// degrade to a no-op or a missing value; no method returns an error.
type SecureStorage struct {
	vault  *Vault
	store  ports.KVStore
	logger *slog.Logger
}

// NewSecureStorage wraps store with v.
func NewSecureStorage(v *Vault, store ports.KVStore, logger *slog.Logger) *SecureStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecureStorage{vault: v, store: store, logger: logger}
}

// SetItem obfuscates value and stores it under key.
func (s *SecureStorage) SetItem(ctx context.Context, namespace, key, value string) {
	if err := s.store.Set(ctx, namespace, key, s.vault.Obfuscate(value)); err != nil {
		s.logger.WarnContext(ctx, "secure storage set failed", "key", key, "error", err)
	}
}

// GetItem returns the revealed value for key. Missing, unreadable, or corrupted
// entries are reported as absent.
func (s *SecureStorage) GetItem(ctx context.Context, namespace, key string) (string, bool) {
	raw, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "secure storage get failed", "key", key, "error", err)
		}
		return "", false
	}
	plain := s.vault.Reveal(raw)
	if plain == "" {
		if raw != "" {
			s.logger.WarnContext(ctx, "secure storage value could not be revealed", "key", key)
		}
		return "", false
	}
	return plain, true
}

// RemoveItem deletes key.
func (s *SecureStorage) RemoveItem(ctx context.Context, namespace, key string) {
	if err := s.store.Delete(ctx, namespace, key); err != nil {
		s.logger.WarnContext(ctx, "secure storage remove failed", "key", key, "error", err)
	}
}

// PlainStorage stores values as-is with the same never-fail contract as SecureStorage.
type PlainStorage struct {
	store  ports.KVStore
	logger *slog.Logger
}

// NewPlainStorage wraps store.
func NewPlainStorage(store ports.KVStore, logger *slog.Logger) *PlainStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlainStorage{store: store, logger: logger}
}

// SetItem stores value under key.
func (s *PlainStorage) SetItem(ctx context.Context, namespace, key, value string) {
	if err := s.store.Set(ctx, namespace, key, value); err != nil {
		s.logger.WarnContext(ctx, "local storage set failed", "key", key, "error", err)
	}
}

// GetItem returns the stored value for key.
func (s *PlainStorage) GetItem(ctx context.Context, namespace, key string) (string, bool) {
	v, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "local storage get failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

// RemoveItem deletes key.
func (s *PlainStorage) RemoveItem(ctx context.Context, namespace, key string) {
	if err := s.store.Delete(ctx, namespace, key); err != nil {
		s.logger.WarnContext(ctx, "local storage remove failed", "key", key, "error", err)
	}
}
