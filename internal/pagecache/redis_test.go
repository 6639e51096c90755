package pagecache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// These tests require a running Redis/Valkey server (7.4+/8+ for HPEXPIRE).
// Set REDIS_ADDRESS (e.g., "localhost:6379") to enable them; they are
// skipped by default.

func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("Skipping Redis tests: set REDIS_ADDRESS to enable")
	}
	return addr
}

// flushTestRedisDB clears all data in DB 15 so tests start with a clean slate.
func flushTestRedisDB(t *testing.T, addr string) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush Redis test DB: %v", err)
	}
}

func newTestRedisStore(t *testing.T, size int, ttl time.Duration) Store {
	t.Helper()
	addr := skipIfNoRedis(t)
	flushTestRedisDB(t, addr)

	store, err := newRedisStore(Config{
		Size:         size,
		TTL:          ttl,
		RedisAddress: addr,
		RedisDB:      15,
		Logger:       zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("newRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_GetSet(t *testing.T) {
	store := newTestRedisStore(t, 100, time.Minute)

	if _, ok := store.Get("missing"); ok {
		t.Fatal("Expected miss for missing page")
	}

	store.Set("page", []byte("<html>fn_detail(1)</html>"))
	body, ok := store.Get("page")
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if string(body) != "<html>fn_detail(1)</html>" {
		t.Fatalf("Unexpected body: %s", body)
	}
}

func TestRedisStore_ContainsAndLen(t *testing.T) {
	store := newTestRedisStore(t, 100, time.Minute)

	if store.Contains("absent") {
		t.Fatal("Expected absent page to not be contained")
	}
	store.Set("a", []byte("1"))
	store.Set("b", []byte("2"))
	if !store.Contains("a") || !store.Contains("b") {
		t.Fatal("Expected stored pages to be contained")
	}
	if store.Len() != 2 {
		t.Fatalf("Expected Len 2, got %d", store.Len())
	}
}

func TestRedisStore_LRUEviction(t *testing.T) {
	store := newTestRedisStore(t, 2, time.Minute)

	store.Set("a", []byte("1"))
	store.Set("b", []byte("2"))
	store.Get("a") // touch so "b" is the LRU entry
	store.Set("c", []byte("3"))

	if store.Contains("b") {
		t.Fatal("Expected LRU page b to be evicted")
	}
	if !store.Contains("a") || !store.Contains("c") {
		t.Fatal("Expected pages a and c to survive eviction")
	}
}

func TestRedisStore_SurvivesReconnect(t *testing.T) {
	addr := skipIfNoRedis(t)
	flushTestRedisDB(t, addr)

	cfg := Config{Size: 10, TTL: time.Minute, RedisAddress: addr, RedisDB: 15, Logger: zerolog.Nop()}
	first, err := newRedisStore(cfg)
	if err != nil {
		t.Fatalf("newRedisStore: %v", err)
	}
	first.Set("page", []byte("cached across runs"))
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A fresh client sees the entry, which is what makes repeated scans cheap.
	second, err := newRedisStore(cfg)
	if err != nil {
		t.Fatalf("newRedisStore: %v", err)
	}
	defer second.Close()

	body, ok := second.Get("page")
	if !ok || string(body) != "cached across runs" {
		t.Fatalf("Expected page to survive reconnect, got %q ok=%v", body, ok)
	}
}
