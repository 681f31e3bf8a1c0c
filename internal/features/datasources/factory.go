package datasources

import (
	"context"
	"fmt"
	"log/slog"

	logs_data "servicelogs/internal/features/logs/data"
	"servicelogs/internal/storage"
)

// DataSourceFactory hands out units of work for the backends configured at
// startup. It holds no per-request state and is safe for concurrent use.
type DataSourceFactory struct {
	backends          *storage.Backends
	defaultDataSource storage.DataSourceType
	logger            *slog.Logger
}

func NewDataSourceFactory(
	backends *storage.Backends,
	defaultDataSource storage.DataSourceType,
	logger *slog.Logger,
) (*DataSourceFactory, error) {
	if backends == nil {
		return nil, fmt.Errorf("backends are required")
	}

	if !backends.Has(defaultDataSource) {
		return nil, fmt.Errorf("default %w: %s", storage.ErrDataSourceUnavailable, defaultDataSource)
	}

	return &DataSourceFactory{
		backends:          backends,
		defaultDataSource: defaultDataSource,
		logger:            logger,
	}, nil
}

// CreateUnitOfWork returns a new unit of work bound to the data source. No
// connection is attempted here; backend failures surface on first use.
func (f *DataSourceFactory) CreateUnitOfWork(
	ctx context.Context,
	dataSource storage.DataSourceType,
) (logs_data.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backend, ok := f.backends.Get(dataSource)
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrDataSourceUnavailable, dataSource)
	}

	return logs_data.NewUnitOfWork(backend, f.logger)
}

// GetAvailableDataSources lists the configured backends in registration order.
func (f *DataSourceFactory) GetAvailableDataSources() []storage.DataSourceType {
	return f.backends.Types()
}

func (f *DataSourceFactory) DefaultDataSource() storage.DataSourceType {
	return f.defaultDataSource
}

// ResolveDataSource returns the requested data source or the process default.
func (f *DataSourceFactory) ResolveDataSource(dataSource *storage.DataSourceType) storage.DataSourceType {
	if dataSource == nil {
		return f.defaultDataSource
	}

	return *dataSource
}
