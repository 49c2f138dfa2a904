package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "tranquidescanso/internal/adapters/redis"
	"tranquidescanso/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCacheRoundTripAndExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	in := domain.Hotel{ID: 3, Name: "Tranqui Centro", Phones: []string{"555-0101"}}
	require.NoError(t, c.Set(ctx, "hotel:3", in, time.Minute))

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:3", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	ok, err = c.Get(ctx, "hotel:3", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheDelManyKeys(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "hotels", []int{1}, time.Minute))
	require.NoError(t, c.Set(ctx, "hotel:1", 1, time.Minute))
	require.NoError(t, c.Del(ctx, "hotels", "hotel:1"))
	assert.False(t, mr.Exists("hotels"))
	assert.False(t, mr.Exists("hotel:1"))
	require.NoError(t, c.Del(ctx))
}

func TestCacheUndecodableValueIsMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("category:1", "not-json"))

	var out domain.Category
	ok, err := c.Get(context.Background(), "category:1", &out)
	assert.Error(t, err)
	assert.False(t, ok)
}
