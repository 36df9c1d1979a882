package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/infras/otel/mocks"
	"hostel/shared/cache"
)

type stats struct {
	TotalRooms int `json:"totalRooms"`
}

func TestMemoryCache_SaveGet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(mocks.NewOtel())

	require.NoError(t, c.Save(ctx, "stats:all", stats{TotalRooms: 4}, 60))

	var got stats
	require.NoError(t, c.Get(ctx, "stats:all", &got))
	assert.Equal(t, 4, got.TotalRooms)

	require.NoError(t, c.Save(ctx, "raw", "plain", 0))

	var str string
	require.NoError(t, c.Get(ctx, "raw", &str))
	assert.Equal(t, "plain", str)
}

func TestMemoryCache_MissIsNil(t *testing.T) {
	c := cache.NewMemoryCache(mocks.NewOtel())

	var count int
	err := c.Get(context.Background(), "limiter:1.2.3.4", &count)

	assert.True(t, errors.Is(err, cache.Nil))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(mocks.NewOtel())

	for _, key := range []string{"user:get:1", "user:get:2", "user:gets:x", "hostel:stats"} {
		require.NoError(t, c.Save(ctx, key, 1, 0))
	}

	require.NoError(t, c.Delete(ctx, "user:get:1"))
	require.NoError(t, c.Clear(ctx, "user:get*"))

	var v int
	assert.Error(t, c.Get(ctx, "user:get:1", &v))
	assert.Error(t, c.Get(ctx, "user:get:2", &v))
	assert.Error(t, c.Get(ctx, "user:gets:x", &v))
	assert.NoError(t, c.Get(ctx, "hostel:stats", &v))
}
