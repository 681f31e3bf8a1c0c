package logs_services

import (
	"sync"

	"servicelogs/internal/features/datasources"
	"servicelogs/internal/util/logger"
)

var (
	logService     *LogService
	logServiceOnce sync.Once
)

func GetLogService() *LogService {
	logServiceOnce.Do(func() {
		logService = NewLogService(datasources.GetDataSourceFactory(), logger.GetLogger())
	})

	return logService
}
