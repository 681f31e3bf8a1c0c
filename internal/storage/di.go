package storage

import (
	"context"
	"os"
	"sync"

	"servicelogs/internal/config"
	"servicelogs/internal/util/logger"
)

var (
	backends     *Backends
	backendsOnce sync.Once
)

// GetBackends connects the configured data sources on first use.
func GetBackends() *Backends {
	backendsOnce.Do(func() {
		log := logger.GetLogger()

		discovered, err := DiscoverBackends(context.Background(), config.GetEnv())
		if err != nil {
			log.Error("Failed to connect data sources", "error", err)
			os.Exit(1)
		}

		backends = discovered
	})

	return backends
}

// DiscoverBackends builds the available backend set from configuration.
func DiscoverBackends(ctx context.Context, env config.EnvVariables) (*Backends, error) {
	options := BackendOptions{
		MaxRetryCount:  env.DbMaxRetryCount,
		RetryDelay:     env.DbRetryDelay(),
		CommandTimeout: env.DbCommandTimeout(),
		MaxOpenConns:   env.DbMaxOpenConns,
	}

	return ConnectAll(ctx, ConnectionStrings{
		DataSourcePostgreSQL: env.PostgresConnectionString,
		DataSourceSqlServer:  env.SqlServerConnectionString,
	}, options, logger.GetLogger())
}
