package testutil

// Package testutil provides shared helpers for integration-ish tests,
// mainly detection of a local Redis instance.

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisAddr resolves the test Redis address, defaulting to localhost.
func redisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis reports whether tests must fail (instead of skip) when
// Redis is unreachable. Set TEST_REQUIRE_REDIS=1 in CI.
func requireRedis() bool {
	return os.Getenv("TEST_REQUIRE_REDIS") == "1"
}

// SetupTestRedis returns a Redis client for tests, skipping the test when
// no server is reachable. The selected DB is flushed before use.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := redisAddr()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: redisTestDB(t)})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})

	return client
}

// redisTestDB picks the DB index for tests. TEST_REDIS_DB overrides; the
// default keeps test data out of DB 0.
func redisTestDB(t *testing.T) int {
	t.Helper()

	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, falling back to DB 1", v)
	}
	return 1
}
