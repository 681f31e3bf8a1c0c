package logs_services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	logs_data "servicelogs/internal/features/logs/data"
	logs_dto "servicelogs/internal/features/logs/dto"
	logs_models "servicelogs/internal/features/logs/models"
	"servicelogs/internal/storage"

	"golang.org/x/sync/singleflight"
)

// UnitOfWorkFactory is the part of the data source factory the service uses.
type UnitOfWorkFactory interface {
	CreateUnitOfWork(ctx context.Context, dataSource storage.DataSourceType) (logs_data.UnitOfWork, error)
	GetAvailableDataSources() []storage.DataSourceType
	ResolveDataSource(dataSource *storage.DataSourceType) storage.DataSourceType
}

const sharedLoadTimeout = 30 * time.Second

// LogService opens one unit of work per call and closes it before returning.
// A nil data source selects the process default.
type LogService struct {
	factory         UnitOfWorkFactory
	historicalLoads singleflight.Group
	logger          *slog.Logger
}

func NewLogService(factory UnitOfWorkFactory, logger *slog.Logger) *LogService {
	return &LogService{factory: factory, logger: logger}
}

func (s *LogService) GetAvailableDataSources() []storage.DataSourceType {
	return s.factory.GetAvailableDataSources()
}

func (s *LogService) GetDefaultDataSource() storage.DataSourceType {
	return s.factory.ResolveDataSource(nil)
}

func (s *LogService) CreateHeader(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	header *logs_models.LogServicesHeader,
) (*logs_models.LogServicesHeader, error) {
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	if header.LogID != 0 {
		return nil, invalidRequest("logId is assigned by the store and must be empty")
	}

	if ids := header.AssignedChildIDs(); len(ids) > 0 {
		return nil, invalidRequest("child entries must not carry identifiers, got %v", ids)
	}

	if header.DateEntry.IsZero() {
		header.DateEntry = time.Now().UTC()
	}

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		if err := uow.Headers().Add(header); err != nil {
			return err
		}

		_, err := uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return header, nil
}

func (s *LogService) UpdateHeader(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	header *logs_models.LogServicesHeader,
) (*logs_models.LogServicesHeader, error) {
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	if header.LogID <= 0 {
		return nil, invalidRequest("logId is required")
	}

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		exists, err := uow.Headers().Exists(ctx, header.LogID)
		if err != nil {
			return err
		}

		if !exists {
			return ErrLogHeaderNotFound
		}

		if err := uow.Headers().Update(header); err != nil {
			return err
		}

		_, err = uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return header, nil
}

// DeleteHeader removes the header and its children. It reports false, and
// issues no delete, when the header does not exist.
func (s *LogService) DeleteHeader(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	id int64,
) (bool, error) {
	deleted := false

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		header, err := uow.Headers().GetByID(ctx, id)
		if err != nil {
			return err
		}

		if header == nil {
			return nil
		}

		if err := uow.Headers().Delete(header); err != nil {
			return err
		}

		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}

		deleted = true
		s.logger.Info("Log header deleted",
			slog.Int64("logId", id),
			slog.String("dataSource", uow.DataSource().String()))

		return nil
	})

	return deleted, err
}

func (s *LogService) GetHeader(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	id int64,
) (*logs_models.LogServicesHeader, error) {
	var header *logs_models.LogServicesHeader

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		header, err = uow.Headers().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if header == nil {
		return nil, ErrLogHeaderNotFound
	}

	return header, nil
}

func (s *LogService) GetHeaderWithDetails(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	id int64,
) (*logs_models.LogServicesHeader, error) {
	var header *logs_models.LogServicesHeader

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		header, err = uow.Headers().GetWithDetails(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if header == nil {
		return nil, ErrLogHeaderNotFound
	}

	return header, nil
}

func (s *LogService) GetHeadersPaged(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	filter *logs_dto.LogFilter,
	pagination logs_dto.PaginationParams,
) (*logs_dto.PagedResult[*logs_models.LogServicesHeader], error) {
	if err := filter.Validate(); err != nil {
		return nil, invalidRequest("%v", err)
	}

	var page *logs_dto.PagedResult[*logs_models.LogServicesHeader]

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		page, err = uow.Headers().GetPaged(ctx, filter, pagination.Normalize())
		return err
	})

	return page, err
}

func (s *LogService) GetFailedHeaders(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	from *time.Time,
) ([]*logs_models.LogServicesHeader, error) {
	var headers []*logs_models.LogServicesHeader

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		headers, err = uow.Headers().GetFailedLogs(ctx, from)
		return err
	})

	return headers, err
}

func (s *LogService) AddMicroserviceLog(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	logID int64,
	entry *logs_models.LogMicroservice,
) (*logs_models.LogMicroservice, error) {
	if entry == nil {
		return nil, invalidRequest("microservice log is required")
	}

	if entry.LogMicroserviceID != 0 {
		return nil, invalidRequest("logMicroserviceId is assigned by the store and must be empty")
	}

	entry.LogID = logID
	if entry.LogDate.IsZero() {
		entry.LogDate = time.Now().UTC()
	}

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		if err := ensureHeaderExists(ctx, uow, logID); err != nil {
			return err
		}

		if err := uow.MicroserviceLogs().Add(entry); err != nil {
			return err
		}

		_, err := uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *LogService) SearchMicroserviceLogs(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	term string,
) ([]*logs_models.LogMicroservice, error) {
	if strings.TrimSpace(term) == "" {
		return nil, invalidRequest("search term is required")
	}

	var entries []*logs_models.LogMicroservice

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		entries, err = uow.MicroserviceLogs().SearchByText(ctx, term)
		return err
	})

	return entries, err
}

// AddContent appends a payload to the header. A zero ContentNo is replaced
// with the next number after the header's existing entries.
func (s *LogService) AddContent(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	logID int64,
	content *logs_models.LogServicesContent,
) (*logs_models.LogServicesContent, error) {
	if content == nil {
		return nil, invalidRequest("content is required")
	}

	if content.LogServicesContentID != 0 {
		return nil, invalidRequest("logServicesContentId is assigned by the store and must be empty")
	}

	if content.ContentNo < 0 {
		return nil, invalidRequest("contentNo must not be negative")
	}

	content.LogID = logID

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		if err := ensureHeaderExists(ctx, uow, logID); err != nil {
			return err
		}

		if content.ContentNo == 0 {
			existing, err := uow.Contents().GetByLogID(ctx, logID)
			if err != nil {
				return err
			}

			content.ContentNo = nextContentNo(existing)
		}

		if err := uow.Contents().Add(content); err != nil {
			return err
		}

		_, err := uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

func (s *LogService) SearchContents(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	term string,
) ([]*logs_models.LogServicesContent, error) {
	if strings.TrimSpace(term) == "" {
		return nil, invalidRequest("search term is required")
	}

	var contents []*logs_models.LogServicesContent

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		contents, err = uow.Contents().SearchByContentText(ctx, term)
		return err
	})

	return contents, err
}

func (s *LogService) GetHistoricalPaged(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	filter *logs_dto.LogFilter,
	pagination logs_dto.PaginationParams,
) (*logs_dto.PagedResult[*logs_models.LogServicesHeaderHistorico], error) {
	if err := filter.Validate(); err != nil {
		return nil, invalidRequest("%v", err)
	}

	var page *logs_dto.PagedResult[*logs_models.LogServicesHeaderHistorico]

	err := s.withUnitOfWork(ctx, dataSource, func(uow logs_data.UnitOfWork) error {
		var err error
		page, err = uow.HistoricalHeaders().GetPaged(ctx, filter, pagination.Normalize())
		return err
	})

	return page, err
}

// GetHistoricalWithDetails lets concurrent requests for the same archived
// header share one database read. The shared read is detached from the
// caller that started it, so one cancelled request does not fail the others.
func (s *LogService) GetHistoricalWithDetails(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	id int64,
) (*logs_models.LogServicesHeaderHistorico, error) {
	loadKey := fmt.Sprintf("%d:%d", int(s.factory.ResolveDataSource(dataSource)), id)

	results := s.historicalLoads.DoChan(loadKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		var header *logs_models.LogServicesHeaderHistorico

		err := s.withUnitOfWork(loadCtx, dataSource, func(uow logs_data.UnitOfWork) error {
			var err error
			header, err = uow.HistoricalHeaders().GetWithDetails(loadCtx, id)
			return err
		})

		return header, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}

		header, _ := result.Val.(*logs_models.LogServicesHeaderHistorico)
		if header == nil {
			return nil, ErrLogHeaderNotFound
		}

		return header, nil
	}
}

func (s *LogService) withUnitOfWork(
	ctx context.Context,
	dataSource *storage.DataSourceType,
	fn func(uow logs_data.UnitOfWork) error,
) error {
	resolved := s.factory.ResolveDataSource(dataSource)

	uow, err := s.factory.CreateUnitOfWork(ctx, resolved)
	if err != nil {
		return err
	}

	defer func() {
		if err := uow.Close(); err != nil {
			s.logger.Warn("Failed to close unit of work",
				slog.String("dataSource", resolved.String()),
				slog.String("error", err.Error()))
		}
	}()

	return fn(uow)
}

func ensureHeaderExists(ctx context.Context, uow logs_data.UnitOfWork, logID int64) error {
	exists, err := uow.Headers().Exists(ctx, logID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %d", ErrLogHeaderNotFound, logID)
	}

	return nil
}

func nextContentNo(existing []*logs_models.LogServicesContent) int {
	next := 1
	for _, content := range existing {
		if content.ContentNo >= next {
			next = content.ContentNo + 1
		}
	}

	return next
}

func validateHeader(header *logs_models.LogServicesHeader) error {
	if header == nil {
		return invalidRequest("log header is required")
	}

	if strings.TrimSpace(header.MethodURL) == "" {
		return invalidRequest("methodUrl is required")
	}

	if !header.State.IsValid() {
		return invalidRequest("state %d is not a valid log state", int(header.State))
	}

	if header.DateExit != nil && !header.DateEntry.IsZero() && header.DateExit.Before(header.DateEntry) {
		return invalidRequest("dateExit must not be before dateEntry")
	}

	return nil
}
