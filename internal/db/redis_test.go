package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestRedis(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := ConnectRedis(ctx, RedisOptions{Addr: addr, Prefix: "test:carlog:", TTL: ttl})
	if err != nil {
		t.Skipf("failed to connect to redis: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore(t *testing.T) {
	testStoreContract(t, connectTestRedis(t, time.Minute))
}

func TestRedisStore_SessionExpires(t *testing.T) {
	store := connectTestRedis(t, time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CurrentUserKey, []byte(`{"username":"alice"}`)))
	require.Eventually(t, func() bool {
		v, err := store.Get(ctx, CurrentUserKey)
		return err == nil && v == nil
	}, 5*time.Second, 100*time.Millisecond)

	v, err := store.Get(ctx, CurrentUserKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}
