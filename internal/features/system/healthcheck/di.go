package system_healthcheck

import (
	"sync"

	"servicelogs/internal/cache"
	"servicelogs/internal/config"
	"servicelogs/internal/storage"
	"servicelogs/internal/util/logger"
)

var (
	healthcheckController     *HealthcheckController
	healthcheckControllerOnce sync.Once
)

func GetHealthcheckController() *HealthcheckController {
	healthcheckControllerOnce.Do(func() {
		healthcheckController = &HealthcheckController{
			healthcheckService: NewHealthcheckService(
				storage.GetBackends(),
				cache.GetCache(),
				config.GetEnv().BackendRootPath,
				logger.GetLogger(),
			),
		}
	})

	return healthcheckController
}
