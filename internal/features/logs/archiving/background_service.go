package logs_archiving

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"servicelogs/internal/config"
	logs_data "servicelogs/internal/features/logs/data"
	logs_models "servicelogs/internal/features/logs/models"
	"servicelogs/internal/storage"
)

type UnitOfWorkFactory interface {
	CreateUnitOfWork(ctx context.Context, dataSource storage.DataSourceType) (logs_data.UnitOfWork, error)
	GetAvailableDataSources() []storage.DataSourceType
}

type ArchiveSettings struct {
	// AfterDays of zero disables archiving.
	AfterDays int
	Interval  time.Duration
	BatchSize int
}

// LogArchivingBackgroundService moves finished log headers older than the
// configured age into the historical tables of the same data source.
type LogArchivingBackgroundService struct {
	factory  UnitOfWorkFactory
	settings ArchiveSettings
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogArchivingBackgroundService(
	factory UnitOfWorkFactory,
	settings ArchiveSettings,
	logger *slog.Logger,
) *LogArchivingBackgroundService {
	return &LogArchivingBackgroundService{
		factory:  factory,
		settings: settings,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *LogArchivingBackgroundService) IsEnabled() bool {
	return s.settings.AfterDays > 0 && s.settings.BatchSize > 0 && s.settings.Interval > 0
}

func (s *LogArchivingBackgroundService) StartWorkers() {
	if !s.IsEnabled() {
		s.logger.Info("Log archiving is disabled")
		return
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting log archiving background worker",
		slog.Duration("interval", s.settings.Interval),
		slog.Int("afterDays", s.settings.AfterDays),
		slog.Int("batchSize", s.settings.BatchSize))

	s.wg.Add(1)
	go s.archivingWorker()
}

func (s *LogArchivingBackgroundService) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

// ExecuteForTest runs one archiving pass synchronously and returns the
// number of archived headers.
func (s *LogArchivingBackgroundService) ExecuteForTest() (int, error) {
	return s.archiveAllDataSources(context.Background())
}

func (s *LogArchivingBackgroundService) archivingWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.settings.Interval)
	defer ticker.Stop()

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Log archiving worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Log archiving worker shutting down")
			return

		case <-ticker.C:
			if _, err := s.archiveAllDataSources(s.ctx); err != nil {
				s.logger.Error("Error during log archiving", slog.String("error", err.Error()))
			}
		}
	}
}

func (s *LogArchivingBackgroundService) archiveAllDataSources(ctx context.Context) (int, error) {
	if !s.IsEnabled() {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -s.settings.AfterDays)
	failures := 0
	totalArchived := 0

	for _, dataSource := range s.factory.GetAvailableDataSources() {
		archived, err := s.archiveDataSource(ctx, dataSource, cutoff)
		totalArchived += archived

		if err != nil {
			failures++
			s.logger.Error("Failed to archive logs",
				slog.String("dataSource", dataSource.String()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("Log archiving completed",
		slog.Time("cutoff", cutoff),
		slog.Int("archivedHeaders", totalArchived),
		slog.Int("failures", failures))

	if failures > 0 {
		return totalArchived, fmt.Errorf("archiving failed for %d data sources", failures)
	}

	return totalArchived, nil
}

func (s *LogArchivingBackgroundService) archiveDataSource(
	ctx context.Context,
	dataSource storage.DataSourceType,
	cutoff time.Time,
) (int, error) {
	total := 0

	for {
		if config.IsShouldShutdown() || ctx.Err() != nil {
			return total, nil
		}

		archived, err := s.archiveBatch(ctx, dataSource, cutoff)
		total += archived

		if err != nil {
			return total, err
		}

		if archived < s.settings.BatchSize {
			return total, nil
		}
	}
}

// archiveBatch copies one batch into the historical tables and removes the
// active rows in a single transaction.
func (s *LogArchivingBackgroundService) archiveBatch(
	ctx context.Context,
	dataSource storage.DataSourceType,
	cutoff time.Time,
) (int, error) {
	uow, err := s.factory.CreateUnitOfWork(ctx, dataSource)
	if err != nil {
		return 0, err
	}
	defer func() { _ = uow.Close() }()

	if err := uow.BeginTransaction(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	headers, err := uow.Headers().GetArchiveCandidates(ctx, cutoff, s.settings.BatchSize)
	if err != nil {
		return 0, err
	}

	if len(headers) == 0 {
		return 0, uow.Rollback()
	}

	historical := logs_data.GetAppendOnlyRepository[logs_models.LogServicesHeaderHistorico](uow)

	for _, header := range headers {
		if err := historical.Add(header.ToHistorical()); err != nil {
			return 0, err
		}

		if err := uow.Headers().Delete(header); err != nil {
			return 0, err
		}
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		return 0, fmt.Errorf("failed to move batch: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit archive batch: %w", err)
	}

	s.logger.Info("Archived log batch",
		slog.String("dataSource", dataSource.String()),
		slog.Int("headers", len(headers)),
		slog.Int64("firstLogId", headers[0].LogID),
		slog.Int64("lastLogId", headers[len(headers)-1].LogID))

	return len(headers), nil
}
