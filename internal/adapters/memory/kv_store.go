package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/target/storefront-admin/internal/ports"
)

type kvKey struct {
	namespace string
	key       string
}

// KVStore is an LRU-bounded local storage backend.
type KVStore struct {
	cache *lru.Cache[kvKey, string]
}

var (
	_ ports.KVStore  = (*KVStore)(nil)
	_ ports.KVPurger = (*KVStore)(nil)
)

// NewKVStore creates a store holding at most size entries across all namespaces.
func NewKVStore(size int) (*KVStore, error) {
	cache, err := lru.New[kvKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("create local storage cache: %w", err)
	}
	return &KVStore{cache: cache}, nil
}

func (s *KVStore) Get(_ context.Context, namespace, key string) (string, error) {
	v, ok := s.cache.Get(kvKey{namespace, key})
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *KVStore) Set(_ context.Context, namespace, key, value string) error {
	s.cache.Add(kvKey{namespace, key}, value)
	return nil
}

func (s *KVStore) Delete(_ context.Context, namespace, key string) error {
	s.cache.Remove(kvKey{namespace, key})
	return nil
}

// Purge drops every key of namespace.
func (s *KVStore) Purge(_ context.Context, namespace string) error {
	for _, k := range s.cache.Keys() {
		if k.namespace == namespace {
			s.cache.Remove(k)
		}
	}
	return nil
}
