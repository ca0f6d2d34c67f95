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

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := Client
	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		Client.Close()
		Client = prev
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var missing payload
	found, err := GetJSON(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "quill", Count: 3}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "quill", Count: 3}, got)
}

func TestCacheAside(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *int) func() error {
		return func() error {
			calls++
			*dest = 42
			return nil
		}
	}

	var v int
	require.NoError(t, CacheAside(ctx, "answer", &v, time.Minute, fetch(&v)))
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	// second read is served from the cache
	var again int
	require.NoError(t, CacheAside(ctx, "answer", &again, time.Minute, fetch(&again)))
	assert.Equal(t, 42, again)
	assert.Equal(t, 1, calls)
}

func TestHelpersNoopWithoutClient(t *testing.T) {
	prev := Client
	Client = nil
	t.Cleanup(func() { Client = prev })

	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", 1, time.Minute))

	// CacheAside falls through to fetch every time
	v := 0
	require.NoError(t, CacheAside(ctx, "k", &v, time.Minute, func() error { v = 7; return nil }))
	assert.Equal(t, 7, v)
}
