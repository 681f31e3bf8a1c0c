package rate_limit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valkey-io/valkey-go"
)

const (
	DefaultMaxConcurrentSearches = 3

	searchSlotKeyPrefix = "servicelogs:concurrent_searches:"
	searchSlotTTL       = 30 * time.Minute
)

// ConcurrencyLimiter caps how many requests per key run at the same time.
type ConcurrencyLimiter interface {
	AcquireSlot(ctx context.Context, key string) (bool, error)
	ReleaseSlot(ctx context.Context, key string)
}

// ValkeyConcurrencyLimiter shares slot counters between instances. Keys
// expire so slots leaked by a crashed instance are eventually reclaimed.
type ValkeyConcurrencyLimiter struct {
	client   valkey.Client
	maxSlots int
	logger   *slog.Logger
}

func NewValkeyConcurrencyLimiter(client valkey.Client, maxSlots int, logger *slog.Logger) *ValkeyConcurrencyLimiter {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxConcurrentSearches
	}

	return &ValkeyConcurrencyLimiter{client: client, maxSlots: maxSlots, logger: logger}
}

func (l *ValkeyConcurrencyLimiter) AcquireSlot(ctx context.Context, key string) (bool, error) {
	slotKey := searchSlotKeyPrefix + key

	result := l.client.Do(ctx, l.client.B().Incr().Key(slotKey).Build())
	if result.Error() != nil {
		return false, fmt.Errorf("failed to increment search counter: %w", result.Error())
	}

	current, err := result.AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to read search counter: %w", err)
	}

	if current > int64(l.maxSlots) {
		l.client.Do(ctx, l.client.B().Decr().Key(slotKey).Build())
		return false, nil
	}

	l.client.Do(ctx, l.client.B().Expire().Key(slotKey).Seconds(int64(searchSlotTTL.Seconds())).Build())

	return true, nil
}

func (l *ValkeyConcurrencyLimiter) ReleaseSlot(ctx context.Context, key string) {
	result := l.client.Do(ctx, l.client.B().Decr().Key(searchSlotKeyPrefix+key).Build())
	if result.Error() != nil {
		l.logger.Error("Failed to release search slot",
			slog.String("key", key),
			slog.String("error", result.Error().Error()))
	}
}

type LocalConcurrencyLimiter struct {
	mu       sync.Mutex
	active   map[string]int
	maxSlots int
}

func NewLocalConcurrencyLimiter(maxSlots int) *LocalConcurrencyLimiter {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxConcurrentSearches
	}

	return &LocalConcurrencyLimiter{active: make(map[string]int), maxSlots: maxSlots}
}

func (l *LocalConcurrencyLimiter) AcquireSlot(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active[key] >= l.maxSlots {
		return false, nil
	}

	l.active[key]++
	return true, nil
}

func (l *LocalConcurrencyLimiter) ReleaseSlot(_ context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active[key] <= 1 {
		delete(l.active, key)
		return
	}

	l.active[key]--
}

// ConcurrencyMiddleware holds a slot per client IP for the duration of the
// request. Like Middleware it fails open.
func ConcurrencyMiddleware(limiter ConcurrencyLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.ClientIP()

		acquired, err := limiter.AcquireSlot(ctx.Request.Context(), key)
		if err != nil {
			logger.Warn("Concurrency check failed", slog.String("error", err.Error()))
			ctx.Next()
			return
		}

		if !acquired {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many concurrent searches"})
			return
		}

		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			limiter.ReleaseSlot(releaseCtx, key)
		}()

		ctx.Next()
	}
}
