package system_healthcheck

import (
	"context"
	"log/slog"
	"math"
	"time"

	"servicelogs/internal/storage"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/valkey-io/valkey-go"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 5 * time.Second

type HealthcheckService struct {
	backends    *storage.Backends
	cacheClient valkey.Client
	diskPath    string
	logger      *slog.Logger
}

func NewHealthcheckService(
	backends *storage.Backends,
	cacheClient valkey.Client,
	diskPath string,
	logger *slog.Logger,
) *HealthcheckService {
	return &HealthcheckService{
		backends:    backends,
		cacheClient: cacheClient,
		diskPath:    diskPath,
		logger:      logger,
	}
}

// CheckHealth pings every available data source concurrently. The result is
// healthy only when all of them answer; cache and disk are informational.
func (s *HealthcheckService) CheckHealth(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	backends := s.backends.All()
	dataSources := make([]DataSourceHealth, len(backends))

	var group errgroup.Group
	for i, backend := range backends {
		group.Go(func() error {
			dataSources[i] = s.pingBackend(ctx, backend)
			return nil
		})
	}

	var cacheHealth *ComponentHealth
	if s.cacheClient != nil {
		group.Go(func() error {
			cacheHealth = s.pingCache(ctx)
			return nil
		})
	}

	var diskUsage *DiskUsage
	group.Go(func() error {
		diskUsage = s.readDiskUsage(ctx)
		return nil
	})

	_ = group.Wait()

	status := HealthStatusOk
	for _, dataSource := range dataSources {
		if !dataSource.Available {
			status = HealthStatusUnavailable
			s.logger.Warn("Data source health check failed",
				slog.String("dataSource", dataSource.DataSource.String()),
				slog.String("error", dataSource.Error))
		}
	}

	return &HealthStatus{
		Status:      status,
		DataSources: dataSources,
		Cache:       cacheHealth,
		Disk:        diskUsage,
	}
}

func (s *HealthcheckService) pingBackend(ctx context.Context, backend *storage.Backend) DataSourceHealth {
	result := DataSourceHealth{DataSource: backend.Type}
	startedAt := time.Now()

	sqlDB, err := backend.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	result.LatencyMs = time.Since(startedAt).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Available = true
	return result
}

func (s *HealthcheckService) pingCache(ctx context.Context) *ComponentHealth {
	if err := s.cacheClient.Do(ctx, s.cacheClient.B().Ping().Build()).Error(); err != nil {
		return &ComponentHealth{Available: false, Error: err.Error()}
	}

	return &ComponentHealth{Available: true}
}

func (s *HealthcheckService) readDiskUsage(ctx context.Context) *DiskUsage {
	usage, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		s.logger.Warn("Failed to read disk usage",
			slog.String("path", s.diskPath),
			slog.String("error", err.Error()))
		return nil
	}

	return &DiskUsage{
		Path:        usage.Path,
		TotalBytes:  usage.Total,
		UsedBytes:   usage.Used,
		UsedPercent: roundPercent(usage.UsedPercent),
	}
}

func roundPercent(value float64) float64 {
	return math.Round(value*100) / 100
}
