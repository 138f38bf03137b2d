package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*ResetSessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewResetSessionStore(client, ttl), mr
}

func TestResetSessionStore_PutGet(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	session := ResetSession{UserID: 7, CodeID: 42, Verified: true}
	require.NoError(t, store.Put(ctx, "token-abc", session))

	got, err := store.Get(ctx, "token-abc")
	require.NoError(t, err)
	assert.Equal(t, session, *got)
}

func TestResetSessionStore_UnknownToken(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	_, err := store.Get(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestResetSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "token-exp", ResetSession{UserID: 1, CodeID: 2}))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "token-exp")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestResetSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "token-del", ResetSession{UserID: 1, CodeID: 2, Verified: true}))
	require.NoError(t, store.Delete(ctx, "token-del"))

	_, err := store.Get(ctx, "token-del")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestResetSessionStore_NoClient(t *testing.T) {
	store := NewResetSessionStore(nil, time.Minute)

	err := store.Put(context.Background(), "t", ResetSession{})
	assert.ErrorIs(t, err, ErrCacheNotAvailable)

	_, err = store.Get(context.Background(), "t")
	assert.ErrorIs(t, err, ErrCacheNotAvailable)

	assert.NoError(t, store.Delete(context.Background(), "t"))
}
