package rate_limit

import (
	"servicelogs/internal/cache"
	"servicelogs/internal/config"
	"servicelogs/internal/util/logger"
)

// GetApiRateLimiter uses Valkey when it is configured and an in-process
// limiter otherwise.
func GetApiRateLimiter() Limiter {
	rpsLimit := config.GetEnv().ApiRequestsPerSecond
	burstLimit := rpsLimit * 2

	if client := cache.GetCache(); client != nil {
		return NewRateLimiter(client, rpsLimit, burstLimit)
	}

	return NewLocalRateLimiter(rpsLimit, burstLimit)
}

// GetSearchConcurrencyLimiter bounds concurrent text searches per client.
func GetSearchConcurrencyLimiter() ConcurrencyLimiter {
	if client := cache.GetCache(); client != nil {
		return NewValkeyConcurrencyLimiter(client, DefaultMaxConcurrentSearches, logger.GetLogger())
	}

	return NewLocalConcurrencyLimiter(DefaultMaxConcurrentSearches)
}
