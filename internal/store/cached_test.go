package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	Client
	lists int
}

func (c *countingClient) List(ctx context.Context, collection string) ([]Document, error) {
	c.lists++
	return c.Client.List(ctx, collection)
}

func newCachedForTest(t *testing.T) (*Cached, *countingClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	inner := &countingClient{Client: NewMemory()}
	return NewCached(inner, client, time.Minute, nil), inner, mr
}

func TestCachedServesRepeatedListsFromRedis(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedForTest(t)

	_, err := cached.Create(ctx, Drivers, Fields{"name": "Ann"})
	require.NoError(t, err)

	first, err := cached.List(ctx, Drivers)
	require.NoError(t, err)
	second, err := cached.List(ctx, Drivers)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, inner.lists)
	require.True(t, mr.Exists(cacheKey(Drivers)))
}

func TestCachedInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedForTest(t)

	id, err := cached.Create(ctx, Loads, Fields{"load_id": "L1"})
	require.NoError(t, err)
	_, err = cached.List(ctx, Loads)
	require.NoError(t, err)

	require.NoError(t, cached.Replace(ctx, Loads, id, Fields{"load_id": "L1-edited"}))
	require.False(t, mr.Exists(cacheKey(Loads)))

	docs, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Equal(t, "L1-edited", docs[0].Fields["load_id"])
	require.Equal(t, 2, inner.lists)

	require.NoError(t, cached.Delete(ctx, Loads, id))
	docs, err = cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestCachedFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedForTest(t)
	_, err := cached.Create(ctx, Drivers, Fields{"name": "Ann"})
	require.NoError(t, err)

	mr.Close()

	docs, err := cached.List(ctx, Drivers)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, 1, inner.lists)
}

func TestCachedExpiresEntries(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedForTest(t)

	_, err := cached.List(ctx, Dispatchers)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cached.List(ctx, Dispatchers)
	require.NoError(t, err)
	require.Equal(t, 2, inner.lists)
}

func TestCachedFreshReadBypassesCacheAndRefills(t *testing.T) {
	ctx := context.Background()
	cached, inner, _ := newCachedForTest(t)

	_, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	_, err = inner.Create(ctx, Loads, Fields{"load_id": "outside"})
	require.NoError(t, err)

	stale, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Empty(t, stale)

	fresh, err := cached.List(WithFreshRead(ctx), Loads)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	require.Equal(t, 2, inner.lists)

	again, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.Equal(t, 2, inner.lists)
}

// writingClient performs a write through the cache while a List is in flight.
type writingClient struct {
	Client
	cached *Cached
	once   bool
}

func (w *writingClient) List(ctx context.Context, collection string) ([]Document, error) {
	docs, err := w.Client.List(ctx, collection)
	if !w.once {
		w.once = true
		if _, err := w.cached.Create(ctx, collection, Fields{"load_id": "late"}); err != nil {
			return nil, err
		}
	}
	return docs, err
}

func TestCachedSkipsFillWhenWriteRacesList(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &writingClient{Client: NewMemory()}
	cached := NewCached(inner, client, time.Minute, nil)
	inner.cached = cached

	first, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Empty(t, first)
	require.False(t, mr.Exists(cacheKey(Loads)))

	second, err := cached.List(ctx, Loads)
	require.NoError(t, err)
	require.Len(t, second, 1)
}
