package datasources

import (
	"os"
	"sync"

	"servicelogs/internal/config"
	"servicelogs/internal/storage"
	"servicelogs/internal/util/logger"
)

var (
	dataSourceFactory     *DataSourceFactory
	dataSourceFactoryOnce sync.Once
)

func GetDataSourceFactory() *DataSourceFactory {
	dataSourceFactoryOnce.Do(func() {
		log := logger.GetLogger()

		defaultDataSource, err := storage.ParseDataSourceType(config.GetEnv().DefaultDataSource)
		if err != nil {
			log.Error("DEFAULT_DATA_SOURCE is invalid", "error", err)
			os.Exit(1)
		}

		factory, err := NewDataSourceFactory(storage.GetBackends(), defaultDataSource, log)
		if err != nil {
			log.Error("Failed to create data source factory", "error", err)
			os.Exit(1)
		}

		dataSourceFactory = factory
	})

	return dataSourceFactory
}
