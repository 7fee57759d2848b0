package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore.Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the per-browser "local storage" backend. Namespace identifies the browser.
type KVStore interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

// KVPurger is implemented by KV stores that can drop a whole namespace.
type KVPurger interface {
	Purge(ctx context.Context, namespace string) error
}
