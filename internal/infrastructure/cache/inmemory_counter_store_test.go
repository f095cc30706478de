package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*InMemoryCounterStore, *time.Time) {
	store := NewInMemoryCounterStore()
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestInMemoryCounterStore_Incr(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	t.Run("counts inside the window", func(t *testing.T) {
		n, left, err := store.Incr(ctx, "attempts:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, time.Minute, left)

		*now = now.Add(20 * time.Second)
		n, left, err = store.Incr(ctx, "attempts:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, 40*time.Second, left, "later hits do not extend the window")
	})

	t.Run("restarts after the window", func(t *testing.T) {
		*now = now.Add(time.Minute)
		n, _, err := store.Incr(ctx, "attempts:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestInMemoryCounterStore_GetAndDelete(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	n, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, _, _ = store.Incr(ctx, "a", time.Minute)
	_, _, _ = store.Incr(ctx, "a", time.Minute)
	_, _, _ = store.Incr(ctx, "b", time.Minute)

	n, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, store.Delete(ctx, "a", "b"))
	n, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, _, _ = store.Incr(ctx, "c", time.Second)
	*now = now.Add(2 * time.Second)
	n, err = store.Get(ctx, "c")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInMemoryCounterStore_Flags(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	ttl, err := store.TTL(ctx, "blocked:1.2.3.4")
	require.NoError(t, err)
	assert.Zero(t, ttl)

	require.NoError(t, store.SetFlag(ctx, "blocked:1.2.3.4", 15*time.Minute))
	*now = now.Add(5 * time.Minute)

	ttl, err = store.TTL(ctx, "blocked:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	*now = now.Add(10 * time.Minute)
	ttl, err = store.TTL(ctx, "blocked:1.2.3.4")
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestInMemoryCounterStore_Cleanup(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	_, _, _ = store.Incr(ctx, "old", time.Second)
	_, _, _ = store.Incr(ctx, "fresh", time.Hour)
	*now = now.Add(time.Minute)

	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryCounterStore_Concurrent(t *testing.T) {
	store := NewInMemoryCounterStore()
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Incr(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	n, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}

func TestInMemoryCounterStore_CloseTwice(t *testing.T) {
	store := NewInMemoryCounterStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewCounterStore_WithoutRedis(t *testing.T) {
	store := NewCounterStore(nil, zap.NewNop())
	defer store.Close()

	_, ok := store.(*InMemoryCounterStore)
	assert.True(t, ok)
}
