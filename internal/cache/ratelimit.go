package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitIPPrefix = "taskmesh:ratelimit:ip:"
	// rateLimitIPTTL is the minimum idle lifetime of a bucket key.
	rateLimitIPTTL = 10 * time.Second
)

// RateLimitResult is the outcome of taking one token.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and takes from a bucket in one round trip.
// Time is in milliseconds so sub-second refills are not lost. It returns
// {allowed, wait_ms, tokens_left}.
var tokenBucketScript = redis.NewScript(`
	local per_ms = tonumber(ARGV[1]) / 1000
	local capacity = tonumber(ARGV[2])
	local now_ms = tonumber(ARGV[3])

	local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
	local level = tonumber(state[1]) or capacity
	local ts = tonumber(state[2]) or now_ms
	if now_ms > ts then
		level = math.min(capacity, level + (now_ms - ts) * per_ms)
	end

	local ok, wait_ms = 0, 0
	if level >= 1 then
		level = level - 1
		ok = 1
	else
		wait_ms = math.ceil((1 - level) / per_ms)
	end

	redis.call('HSET', KEYS[1], 'tokens', level, 'ts', now_ms)
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
	return {ok, wait_ms, math.floor(level)}
`)

// CheckIPRateLimit takes one token from ip's bucket. The address is hashed
// before it becomes part of a key. Redis errors are returned as is; the
// caller chooses whether to fail open.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil, fmt.Errorf("invalid rate limit: rate=%d burst=%d", ratePerSecond, burst)
	}

	// A key must outlive a full refill, otherwise an expired bucket
	// would come back full early.
	ttl := time.Duration(burst)*time.Second/time.Duration(ratePerSecond) + time.Second
	if ttl < rateLimitIPTTL {
		ttl = rateLimitIPTTL
	}

	now := time.Now()
	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{rateLimitIPPrefix + hashIP(ip)},
		ratePerSecond, burst, now.UnixMilli(), ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run token bucket: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("token bucket returned %d values", len(res))
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  res[2],
		ResetAt:    now.Add(time.Second / time.Duration(ratePerSecond)),
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

// hashIP returns the first 8 bytes of the address's SHA-256, hex encoded.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
