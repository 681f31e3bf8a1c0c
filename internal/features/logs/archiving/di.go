package logs_archiving

import (
	"sync"

	"servicelogs/internal/config"
	"servicelogs/internal/features/datasources"
	"servicelogs/internal/util/logger"
)

var (
	logArchivingBackgroundService     *LogArchivingBackgroundService
	logArchivingBackgroundServiceOnce sync.Once
)

func GetLogArchivingBackgroundService() *LogArchivingBackgroundService {
	logArchivingBackgroundServiceOnce.Do(func() {
		env := config.GetEnv()

		logArchivingBackgroundService = NewLogArchivingBackgroundService(
			datasources.GetDataSourceFactory(),
			ArchiveSettings{
				AfterDays: env.ArchiveAfterDays,
				Interval:  env.ArchiveInterval(),
				BatchSize: env.ArchiveBatchSize,
			},
			logger.GetLogger(),
		)
	})

	return logArchivingBackgroundService
}
