package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/lost-in-space/pkg/world"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() *world.Definition {
	return &world.Definition{
		Title: "Test Ship",
		Rooms: []world.RoomDefinition{
			{Name: "Bridge", Description: "The command deck.", Exits: world.Exit{North: "CargoBay"}},
			{Name: "CargoBay", Description: "Crates everywhere.", Exits: world.Exit{South: "Bridge"}},
		},
	}
}

func setupTestRedis(t *testing.T, inner WorldStore) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, inner, time.Hour, testLogger())
	t.Cleanup(func() { _ = client.Close() })
	return cache, mr
}

func TestRedisCache_ReadThrough(t *testing.T) {
	inner := NewMockStore()
	inner.AddWorld("ship.json", testDefinition())
	cache, mr := setupTestRedis(t, inner)
	ctx := context.Background()

	def, err := cache.GetDefinition(ctx, "ship.json")
	require.NoError(t, err)
	assert.Equal(t, "Test Ship", def.Title)
	assert.Equal(t, 1, inner.Gets("ship.json"))
	assert.True(t, mr.Exists("world:ship.json"))
	assert.Equal(t, time.Hour, mr.TTL("world:ship.json"))

	def, err = cache.GetDefinition(ctx, "ship.json")
	require.NoError(t, err)
	assert.Equal(t, "CargoBay", def.Rooms[0].Exits.North)
	assert.Equal(t, 1, inner.Gets("ship.json"))
}

func TestRedisCache_Invalidate(t *testing.T) {
	inner := NewMockStore()
	inner.AddWorld("ship.json", testDefinition())
	cache, mr := setupTestRedis(t, inner)
	ctx := context.Background()

	_, err := cache.GetDefinition(ctx, "ship.json")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "ship.json"))
	assert.False(t, mr.Exists("world:ship.json"))

	assert.Equal(t, 1, inner.Invalidations("ship.json"))

	_, err = cache.GetDefinition(ctx, "ship.json")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Gets("ship.json"))
}

func TestRedisCache_CloseClosesInnerOnError(t *testing.T) {
	tests := []struct {
		name       string
		closeRedis bool
		innerErr   error
		wantErrs   []string
	}{
		{name: "both succeed"},
		{name: "redis already closed", closeRedis: true, wantErrs: []string{"failed to close redis"}},
		{name: "inner fails", innerErr: errors.New("disk gone"), wantErrs: []string{"disk gone"}},
		{name: "both fail", closeRedis: true, innerErr: errors.New("disk gone"), wantErrs: []string{"failed to close redis", "disk gone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := NewMockStore()
			inner.SetCloseError(tt.innerErr)
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			cache := NewRedisCacheWithClient(client, inner, time.Hour, testLogger())
			if tt.closeRedis {
				require.NoError(t, client.Close())
			}

			err := cache.Close()
			assert.True(t, inner.Closed())
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.Contains(t, err.Error(), want)
			}
			if tt.innerErr != nil {
				assert.ErrorIs(t, err, tt.innerErr)
			}
		})
	}
}

func TestRedisCache_CorruptEntryIsReplaced(t *testing.T) {
	inner := NewMockStore()
	inner.AddWorld("ship.json", testDefinition())
	cache, mr := setupTestRedis(t, inner)

	require.NoError(t, mr.Set("world:ship.json", "{not json"))

	def, err := cache.GetDefinition(context.Background(), "ship.json")
	require.NoError(t, err)
	assert.Equal(t, "Test Ship", def.Title)
	assert.Equal(t, 1, inner.Gets("ship.json"))
}

func TestRedisCache_FallsBackWhenRedisIsDown(t *testing.T) {
	inner := NewMockStore()
	inner.AddWorld("ship.json", testDefinition())
	cache, mr := setupTestRedis(t, inner)
	mr.Close()

	def, err := cache.GetDefinition(context.Background(), "ship.json")
	require.NoError(t, err)
	assert.Equal(t, "Test Ship", def.Title)
	assert.Error(t, cache.Ping(context.Background()))
}

func TestRedisCache_NotFound(t *testing.T) {
	cache, mr := setupTestRedis(t, NewMockStore())

	_, err := cache.GetDefinition(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrWorldNotFound)
	assert.False(t, mr.Exists("world:nope.json"))
}

func TestRedisCache_WaitForConnection(t *testing.T) {
	cache, _ := setupTestRedis(t, NewMockStore())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, cache.WaitForConnection(ctx))
	assert.NoError(t, cache.Ping(ctx))
}

func TestRedisCache_WaitForConnectionCancelled(t *testing.T) {
	cache, mr := setupTestRedis(t, NewMockStore())
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, cache.WaitForConnection(ctx))
}
