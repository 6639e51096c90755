package pagecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kpress/msit-dl/internal/metrics"
)

const (
	// All board pages live under two fixed Redis keys so the cache never
	// sprawls across the keyspace, no matter how many pages are cached.
	pagesKey    = "msitdl:pages"
	pagesLRUKey = "msitdl:pages:lru"

	redisOpTimeout = 2 * time.Second
)

// redisStore caches page bodies in Redis/Valkey so a scan started tomorrow
// still reuses today's fetches. Bodies live as fields of the pagesKey hash
// with per-field TTL (HPEXPIRE, Redis 7.4+ / Valkey 8+); on older servers
// writes succeed but never expire. A sorted set scored by last-access
// microseconds tracks LRU order, and Lua scripts keep the read-touch and
// write-evict pairs atomic.
type redisStore struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	logger  zerolog.Logger
}

// KEYS[1] = page hash, KEYS[2] = LRU sorted set
// ARGV[1] = current µs timestamp, ARGV[2] = page URL
// Returns the body on hit, nil on miss (including expired fields).
var touchOnGet = redis.NewScript(`
local body = redis.call('HGET', KEYS[1], ARGV[2])
if body then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return body
`)

// KEYS[1] = page hash, KEYS[2] = LRU sorted set
// ARGV[1] = body, ARGV[2] = current µs timestamp, ARGV[3] = page URL,
// ARGV[4] = max pages, ARGV[5] = TTL in milliseconds
// Returns the number of pages evicted to stay under capacity.
var storeAndEvict = redis.NewScript(`
local pageURL  = ARGV[3]
local maxPages = tonumber(ARGV[4])
local ttlMs    = tonumber(ARGV[5])

redis.call('HSET', KEYS[1], pageURL, ARGV[1])
redis.call('HPEXPIRE', KEYS[1], ttlMs, 'FIELDS', 1, pageURL)
redis.call('ZADD', KEYS[2], ARGV[2], pageURL)

-- Drop least-recently-fetched pages while over capacity. A field Redis
-- already expired makes HDEL a no-op; the stale LRU member still gets cleaned.
local size = redis.call('ZCARD', KEYS[2])
local evicted = 0
while size > maxPages do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('HDEL', KEYS[1], oldest[1])
    evicted = evicted + 1
    size = size - 1
end

return evicted
`)

func newRedisStore(cfg Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pagecache: redis ping failed: %w", err)
	}

	return &redisStore{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		logger:  cfg.Logger,
	}, nil
}

func (r *redisStore) keys() []string {
	return []string{pagesKey, pagesLRUKey}
}

func (r *redisStore) Get(pageURL string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	body, err := touchOnGet.Run(ctx, r.client, r.keys(), now, pageURL).Text()
	if err != nil {
		// redis.Nil is a normal miss.
		if !errors.Is(err, redis.Nil) {
			r.logger.Error().Err(err).Msg("Page cache read failed")
		}
		return nil, false
	}
	return []byte(body), true
}

func (r *redisStore) Set(pageURL string, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	maxPages := strconv.Itoa(r.maxSize)
	ttlMs := strconv.FormatInt(r.ttl.Milliseconds(), 10)

	evicted, err := storeAndEvict.Run(ctx, r.client, r.keys(),
		body, now, pageURL, maxPages, ttlMs,
	).Int()
	if err != nil {
		r.logger.Error().Err(err).Msg("Page cache write failed")
		return
	}
	if evicted > 0 {
		metrics.PageCacheEvictionsTotal.Add(float64(evicted))
	}
}

func (r *redisStore) Contains(pageURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	found, err := r.client.HExists(ctx, pagesKey, pageURL).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("Page cache lookup failed")
		return false
	}
	return found
}

func (r *redisStore) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.HLen(ctx, pagesKey).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("Page cache size read failed")
		return 0
	}
	return int(n)
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
