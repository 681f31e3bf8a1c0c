package rate_limit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalRateLimiter keeps one token bucket per key in process memory. It is
// used when no Valkey instance is configured.
type LocalRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	rpsLimit   int
	burstLimit int
}

func NewLocalRateLimiter(rpsLimit, burstLimit int) *LocalRateLimiter {
	rpsLimit, burstLimit = normalizeLimits(rpsLimit, burstLimit)

	return &LocalRateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rpsLimit:   rpsLimit,
		burstLimit: burstLimit,
	}
}

func (l *LocalRateLimiter) CheckRateLimit(_ context.Context, key string) (*RateLimitResult, error) {
	limiter := l.limiterFor(key)
	now := time.Now()

	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)
	remaining := max(int(math.Floor(tokens)), 0)

	missing := float64(l.burstLimit) - tokens
	timeToFull := time.Duration(0)
	if missing > 0 {
		timeToFull = time.Duration(missing / float64(l.rpsLimit) * float64(time.Second))
	}

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     remaining,
		ResetTime:     now.Add(timeToFull),
		RetryAfterSec: retryAfterSec(allowed, l.rpsLimit),
	}, nil
}

func (l *LocalRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rpsLimit), l.burstLimit)
		l.limiters[key] = limiter
	}

	return limiter
}
