package rate_limit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP. When the limiter itself fails
// the request is let through.
func Middleware(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := limiter.CheckRateLimit(ctx.Request.Context(), ctx.ClientIP())
		if err != nil {
			logger.Warn("Rate limit check failed", slog.String("error", err.Error()))
			ctx.Next()
			return
		}

		ctx.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			ctx.Header("Retry-After", strconv.Itoa(result.RetryAfterSec))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		ctx.Next()
	}
}
