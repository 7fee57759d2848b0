package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/storefront-admin/internal/mocks"
	"github.com/target/storefront-admin/internal/ports"
	"go.uber.org/mock/gomock"
)

func TestSecureStorage_SetStoresObfuscatedValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKVStore(ctrl)
	v := newTestVault(t)
	s := NewSecureStorage(v, store, nil)
	ctx := context.Background()

	store.EXPECT().Set(ctx, "client-1", "remember-email", v.Obfuscate("a@b.c")).Return(nil)
	s.SetItem(ctx, "client-1", "remember-email", "a@b.c")
}

func TestSecureStorage_GetRevealsValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKVStore(ctrl)
	v := newTestVault(t)
	s := NewSecureStorage(v, store, nil)
	ctx := context.Background()

	store.EXPECT().Get(ctx, "client-1", "remember-email").Return(v.Obfuscate("a@b.c"), nil)
	got, ok := s.GetItem(ctx, "client-1", "remember-email")
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", got)
}

func TestSecureStorage_FailuresDegrade(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKVStore(ctrl)
	s := NewSecureStorage(newTestVault(t), store, nil)
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	store.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)
	store.EXPECT().Get(gomock.Any(), gomock.Any(), "a").Return("", boom)
	store.EXPECT().Get(gomock.Any(), gomock.Any(), "b").Return("", ports.ErrKeyNotFound)
	store.EXPECT().Get(gomock.Any(), gomock.Any(), "c").Return("!!corrupted!!", nil)
	store.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	assert.NotPanics(t, func() { s.SetItem(ctx, "ns", "a", "value") })

	for _, key := range []string{"a", "b", "c"} {
		got, ok := s.GetItem(ctx, "ns", key)
		assert.False(t, ok, key)
		assert.Empty(t, got, key)
	}

	assert.NotPanics(t, func() { s.RemoveItem(ctx, "ns", "a") })
}

func TestPlainStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKVStore(ctrl)
	s := NewPlainStorage(store, nil)
	ctx := context.Background()

	store.EXPECT().Set(ctx, "ns", "customer-list-limit", "25").Return(nil)
	store.EXPECT().Get(ctx, "ns", "customer-list-limit").Return("25", nil)
	store.EXPECT().Get(ctx, "ns", "missing").Return("", ports.ErrKeyNotFound)
	store.EXPECT().Delete(ctx, "ns", "customer-list-limit").Return(errors.New("down"))

	s.SetItem(ctx, "ns", "customer-list-limit", "25")
	got, ok := s.GetItem(ctx, "ns", "customer-list-limit")
	assert.True(t, ok)
	assert.Equal(t, "25", got)

	_, ok = s.GetItem(ctx, "ns", "missing")
	assert.False(t, ok)

	s.RemoveItem(ctx, "ns", "customer-list-limit")
}
