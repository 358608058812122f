package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RelationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRelationCache(client, time.Minute), mr
}

func TestRelationCache_HitAfterFill(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]uint, error) {
		calls++
		return []uint{3, 1, 2}, nil
	}

	ids, err := c.IDs(ctx, Following, 7, load)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	ids, err = c.IDs(ctx, Following, 7, load)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)
	assert.Equal(t, 1, calls)
	assert.EqualValues(t, 1, c.Loads())

	assert.True(t, mr.Exists("warbler:following:index:7"))
	assert.Equal(t, time.Minute, mr.TTL("warbler:following:index:7"))
}

func TestRelationCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	ids := []uint{1}
	load := func(context.Context) ([]uint, error) { return ids, nil }

	_, err := c.IDs(ctx, Followers, 1, load)
	require.NoError(t, err)

	ids = []uint{1, 2}
	c.Invalidate(ctx, Followers, 1, 99)
	assert.False(t, mr.Exists("warbler:followers:index:1"))

	got, err := c.IDs(ctx, Followers, 1, load)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, got)
}

func TestRelationCache_EmptyNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	load := func(context.Context) ([]uint, error) { return nil, nil }

	ids, err := c.IDs(context.Background(), Following, 1, load)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.False(t, mr.Exists("warbler:following:index:1"))
}

func TestRelationCache_LoadError(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")

	_, err := c.IDs(context.Background(), Following, 1, func(context.Context) ([]uint, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestRelationCache_RedisDownFallsBack(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	ids, err := c.IDs(context.Background(), Following, 1, func(context.Context) ([]uint, error) { return []uint{5}, nil })
	require.NoError(t, err)
	assert.Equal(t, []uint{5}, ids)
}

func TestRelationCache_NilClientPassthrough(t *testing.T) {
	c := NewRelationCache(nil, 0)
	calls := 0
	load := func(context.Context) ([]uint, error) {
		calls++
		return []uint{1}, nil
	}
	_, _ = c.IDs(context.Background(), Following, 1, load)
	_, _ = c.IDs(context.Background(), Following, 1, load)
	assert.Equal(t, 2, calls)
	c.Invalidate(context.Background(), Following, 1)
}

func TestRelationCache_InvalidateDuringLoadSkipsFill(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	stored := []uint{2}

	// 读完存储之后、回填之前发生了一次写入
	ids, err := c.IDs(ctx, Following, 1, func(context.Context) ([]uint, error) {
		snapshot := append([]uint(nil), stored...)
		stored = append([]uint{3}, stored...)
		c.Invalidate(ctx, Following, 1)
		return snapshot, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)
	assert.False(t, mr.Exists("warbler:following:index:1"))

	ids, err = c.IDs(ctx, Following, 1, func(context.Context) ([]uint, error) { return stored, nil })
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 2}, ids)
	assert.True(t, mr.Exists("warbler:following:index:1"))
	assert.EqualValues(t, 2, c.Loads())
}

func TestRelationCache_InvalidateBumpsGeneration(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Invalidate(ctx, Followers, 4)
	c.Invalidate(ctx, Followers, 4)

	gen, err := mr.Get("warbler:followers:gen:4")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
	assert.Equal(t, genTTLFactor*time.Minute, mr.TTL("warbler:followers:gen:4"))
}

func TestRelationCache_Enabled(t *testing.T) {
	c, _ := newTestCache(t)
	assert.True(t, c.Enabled())
	assert.False(t, NewRelationCache(nil, 0).Enabled())
	var nilCache *RelationCache
	assert.False(t, nilCache.Enabled())
}
