package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan string) string {
	select {
	case v, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no token change observed")
		return ""
	}
}

func TestMemoryTokenStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryTokenStore()

	token, err := s.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	assert.NoError(t, s.Set(ctx, "token-a"))
	assert.Equal(t, "token-a", receive(t, changes))

	token, _ = s.Get(ctx)
	assert.Equal(t, "token-a", token)

	assert.NoError(t, s.Clear(ctx))
	assert.Equal(t, "", receive(t, changes))

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-changes
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryTokenStoreKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewMemoryTokenStore()

	changes, _ := s.Watch(ctx)
	s.Set(ctx, "one")
	s.Set(ctx, "two")
	s.Clear(ctx)

	assert.Equal(t, "", receive(t, changes))
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisTokenStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	s := NewRedisTokenStore(client, "triage:dashboard:token", 0)

	token, err := s.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, s.Set(ctx, "token-a"))
	token, err = s.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "token-a", token)

	stored, err := mr.Get("triage:dashboard:token")
	assert.NoError(t, err)
	assert.Equal(t, "token-a", stored)

	assert.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("triage:dashboard:token"))
}

func TestRedisTokenStoreTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	s := NewRedisTokenStore(client, "token", time.Hour)
	assert.NoError(t, s.Set(ctx, "token-a"))
	assert.Equal(t, time.Hour, mr.TTL("token"))

	mr.FastForward(2 * time.Hour)
	token, err := s.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestRedisTokenStoreWatch(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// two stores on the same key stand for two processes
	dashboard := NewRedisTokenStore(client, "token", 0)
	other := NewRedisTokenStore(client, "token", 0)

	changes, err := dashboard.Watch(ctx)
	require.NoError(t, err)

	assert.NoError(t, other.Set(ctx, "token-b"))
	assert.Equal(t, "token-b", receive(t, changes))

	assert.NoError(t, other.Clear(ctx))
	assert.Equal(t, "", receive(t, changes))
}
