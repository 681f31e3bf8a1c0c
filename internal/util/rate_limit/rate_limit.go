package rate_limit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/valkey-io/valkey-go"
)

type RateLimitResult struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	ResetTime     time.Time `json:"resetTime"`
	RetryAfterSec int       `json:"retryAfterSec,omitempty"`
}

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string) (*RateLimitResult, error)
}

const (
	defaultTimeout = 5 * time.Second
	keyPrefix      = "servicelogs:rate_limit:"
	keyTTLSeconds  = 300
)

// RateLimiter is a token bucket shared by every API instance through Valkey.
type RateLimiter struct {
	client     valkey.Client
	rpsLimit   int
	burstLimit int
}

// tokenBucketLuaScript refills, checks and consumes a token atomically.
const tokenBucketLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local rps_limit = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

-- Get current state
local current = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(current[1]) or burst_limit
local last_refill = tonumber(current[2]) or now

-- Calculate time elapsed and tokens to add
local elapsed = math.max(0, now - last_refill)
local tokens_to_add = math.floor(elapsed * rps_limit / 1000)
tokens = math.min(burst_limit, tokens + tokens_to_add)

-- Check if request can be allowed
local allowed = 0
local remaining = tokens
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
    remaining = tokens
end

-- Update state
redis.call('HMSET', key, 'tokens', tokens, 'last_refill', now)
redis.call('EXPIRE', key, ttl)

-- Calculate reset time (when bucket will be full again)
local time_to_full = 0
if tokens < burst_limit then
    time_to_full = math.ceil((burst_limit - tokens) * 1000 / rps_limit)
end

return {allowed, remaining, time_to_full}
`

func NewRateLimiter(client valkey.Client, rpsLimit, burstLimit int) *RateLimiter {
	rpsLimit, burstLimit = normalizeLimits(rpsLimit, burstLimit)

	return &RateLimiter{
		client:     client,
		rpsLimit:   rpsLimit,
		burstLimit: burstLimit,
	}
}

func (r *RateLimiter) CheckRateLimit(ctx context.Context, key string) (*RateLimitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UnixMilli()

	result := r.client.Do(ctx, r.client.B().Eval().
		Script(tokenBucketLuaScript).
		Numkeys(1).
		Key(keyPrefix+key).
		Arg(fmt.Sprintf("%d", now)).
		Arg(fmt.Sprintf("%d", r.rpsLimit)).
		Arg(fmt.Sprintf("%d", r.burstLimit)).
		Arg(fmt.Sprintf("%d", keyTTLSeconds)).
		Build())

	if result.Error() != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit result: %w", err)
	}

	if len(values) < 3 {
		return nil, fmt.Errorf("invalid rate limit result: expected 3 values, got %d", len(values))
	}

	allowed := values[0] == 1
	remaining := int(values[1])
	timeToFullMs := values[2]

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     remaining,
		ResetTime:     time.Now().Add(time.Duration(timeToFullMs) * time.Millisecond),
		RetryAfterSec: retryAfterSec(allowed, r.rpsLimit),
	}, nil
}

func (r *RateLimiter) ResetRateLimit(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.client.Do(ctx, r.client.B().Del().Key(keyPrefix+key).Build()).Error()
}

func normalizeLimits(rpsLimit, burstLimit int) (int, int) {
	if rpsLimit <= 0 {
		rpsLimit = 100
	}

	if burstLimit <= 0 {
		burstLimit = max(rpsLimit*5, 500)
	}

	return rpsLimit, burstLimit
}

func retryAfterSec(allowed bool, rpsLimit int) int {
	if allowed {
		return 0
	}

	// enough time for at least one token
	return max(int(math.Ceil(1.0/float64(rpsLimit))), 1)
}
