package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// ConnectionStrings maps a data source to its configured DSN. Empty strings
// mean "not configured".
type ConnectionStrings map[DataSourceType]string

func dialectorFor(dataSource DataSourceType, dsn string) (gorm.Dialector, error) {
	switch dataSource {
	case DataSourcePostgreSQL:
		return postgres.Open(dsn), nil
	case DataSourceSqlServer:
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported data source: %s", dataSource)
	}
}

// Connect opens the connection pool for one backend and checks it with a
// bounded number of retries. A backend that stays unreachable is still
// returned: availability depends on configuration, and later failures
// surface as persistence errors.
func Connect(
	ctx context.Context,
	dataSource DataSourceType,
	dsn string,
	options BackendOptions,
	logger *slog.Logger,
) (*Backend, error) {
	dialector, err := dialectorFor(dataSource, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger:               gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dataSource, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s connection pool: %w", dataSource, err)
	}

	if options.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(options.MaxOpenConns)
		sqlDB.SetMaxIdleConns(options.MaxOpenConns)
	}

	retryDelay := options.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultBackendOptions().RetryDelay
	}

	backoff := retry.WithMaxRetries(uint64(max(options.MaxRetryCount, 0)), retry.NewConstant(retryDelay))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := options.WithCommandTimeout(ctx)
		defer cancel()

		if err := sqlDB.PingContext(pingCtx); err != nil {
			logger.Warn("Data source ping failed, retrying",
				slog.String("dataSource", dataSource.String()),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		logger.Error("Data source is configured but unreachable",
			slog.String("dataSource", dataSource.String()),
			slog.String("error", err.Error()))
	} else {
		logger.Info("Data source connected", slog.String("dataSource", dataSource.String()))
	}

	return &Backend{
		Type:    dataSource,
		DB:      db,
		Options: options,
	}, nil
}

// ConnectAll connects every data source with a non-empty connection string.
// The resulting set is what the process treats as available.
func ConnectAll(
	ctx context.Context,
	connectionStrings ConnectionStrings,
	options BackendOptions,
	logger *slog.Logger,
) (*Backends, error) {
	var backends []*Backend

	for _, dataSource := range AllDataSourceTypes() {
		dsn := strings.TrimSpace(connectionStrings[dataSource])
		if dsn == "" {
			logger.Info("Data source not configured", slog.String("dataSource", dataSource.String()))
			continue
		}

		backend, err := Connect(ctx, dataSource, dsn, options, logger)
		if err != nil {
			return nil, err
		}

		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no data source is configured")
	}

	return NewBackends(backends...)
}
