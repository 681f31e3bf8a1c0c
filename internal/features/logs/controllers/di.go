package logs_controllers

import (
	"sync"

	logs_services "servicelogs/internal/features/logs/services"
	"servicelogs/internal/util/logger"
	"servicelogs/internal/util/rate_limit"

	"github.com/gin-gonic/gin"
)

var (
	logController     *LogController
	logControllerOnce sync.Once
)

func GetLogController() *LogController {
	logControllerOnce.Do(func() {
		logController = NewLogController(
			logs_services.GetLogService(),
			rate_limit.ConcurrencyMiddleware(rate_limit.GetSearchConcurrencyLimiter(), logger.GetLogger()),
		)
	})

	return logController
}

// NewLogController runs searchGuards before the text search handlers.
func NewLogController(logService *logs_services.LogService, searchGuards ...gin.HandlerFunc) *LogController {
	return &LogController{logService: logService, searchGuards: searchGuards}
}
