package testutil

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTestRedisAddr is the docker-compose test profile Redis.
const defaultTestRedisAddr = "localhost:56379"

// TestRedisAddr returns TEST_REDIS_ADDR, then REDIS_ADDR (CI), then the local default.
func TestRedisAddr() string {
	for _, key := range []string{"TEST_REDIS_ADDR", "REDIS_ADDR"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return defaultTestRedisAddr
}

// testRedisDB returns TEST_REDIS_DB, defaulting to 1 so DB 0 is left alone.
func testRedisDB() int {
	if i, err := strconv.Atoi(os.Getenv("TEST_REDIS_DB")); err == nil && i >= 0 {
		return i
	}
	return 1
}

// SetupTestRedis returns a client on a flushed test DB, closed when the test ends.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr := TestRedisAddr()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: testRedisDB()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeAndLog(t, "redis client", client)
		skipOrFail(t, requireRedis(), "redis not available at %s: %v", addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis db: %v", err)
	}
	t.Cleanup(func() { closeAndLog(t, "redis client", client) })
	return client
}
