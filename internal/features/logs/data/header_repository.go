package logs_data

import (
	"context"
	"time"

	logs_dto "servicelogs/internal/features/logs/dto"
	logs_models "servicelogs/internal/features/logs/models"

	"gorm.io/gorm"
)

type HeaderRepository interface {
	ReadRepository[logs_models.LogServicesHeader]
	WriteRepository[logs_models.LogServicesHeader]

	GetByDateRange(ctx context.Context, start, end time.Time) ([]*logs_models.LogServicesHeader, error)
	GetByState(ctx context.Context, state logs_models.LogState) ([]*logs_models.LogServicesHeader, error)
	GetByMicroserviceName(ctx context.Context, name string) ([]*logs_models.LogServicesHeader, error)
	GetByUserID(ctx context.Context, userID string) ([]*logs_models.LogServicesHeader, error)
	GetByTransactionID(ctx context.Context, transactionID string) ([]*logs_models.LogServicesHeader, error)
	// GetWithDetails returns the header with both child collections loaded,
	// or nil when it does not exist.
	GetWithDetails(ctx context.Context, id int64) (*logs_models.LogServicesHeader, error)
	// GetFailedLogs returns failed headers, optionally only those entered
	// at or after from.
	GetFailedLogs(ctx context.Context, from *time.Time) ([]*logs_models.LogServicesHeader, error)
	GetPaged(
		ctx context.Context,
		filter *logs_dto.LogFilter,
		pagination logs_dto.PaginationParams,
	) (*logs_dto.PagedResult[*logs_models.LogServicesHeader], error)
	// GetArchiveCandidates returns up to limit terminal headers entered
	// before olderThan, oldest identifiers first, with children loaded.
	GetArchiveCandidates(
		ctx context.Context,
		olderThan time.Time,
		limit int,
	) ([]*logs_models.LogServicesHeader, error)
}

type headerRepository struct {
	*Repository[logs_models.LogServicesHeader, *logs_models.LogServicesHeader]
}

func newHeaderRepository(session *Session) *headerRepository {
	return &headerRepository{
		Repository: newRepository[logs_models.LogServicesHeader](session),
	}
}

func (r *headerRepository) GetByDateRange(
	ctx context.Context,
	start, end time.Time,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get headers by date range", dateRangeScope(start, end))
}

func (r *headerRepository) GetByState(
	ctx context.Context,
	state logs_models.LogState,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get headers by state", equalsScope(columnState, state))
}

func (r *headerRepository) GetByMicroserviceName(
	ctx context.Context,
	name string,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get headers by microservice", equalsScope(columnMicroserviceName, name))
}

func (r *headerRepository) GetByUserID(
	ctx context.Context,
	userID string,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get headers by user", equalsScope(columnUserID, userID))
}

func (r *headerRepository) GetByTransactionID(
	ctx context.Context,
	transactionID string,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get headers by transaction", equalsScope(columnTransactionID, transactionID))
}

func (r *headerRepository) GetWithDetails(
	ctx context.Context,
	id int64,
) (*logs_models.LogServicesHeader, error) {
	return r.first(ctx, "get header with details", id, preloadHeaderDetails)
}

func (r *headerRepository) GetFailedLogs(
	ctx context.Context,
	from *time.Time,
) ([]*logs_models.LogServicesHeader, error) {
	scopes := []Scope{equalsScope(columnState, logs_models.LogStateFailed)}
	if from != nil {
		start := *from
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(columnDateEntry+" >= ?", start)
		})
	}

	return r.list(ctx, "get failed headers", scopes...)
}

func (r *headerRepository) GetPaged(
	ctx context.Context,
	filter *logs_dto.LogFilter,
	pagination logs_dto.PaginationParams,
) (*logs_dto.PagedResult[*logs_models.LogServicesHeader], error) {
	return r.page(ctx, "get paged headers", pagination, FilterScope(filter))
}

func (r *headerRepository) GetArchiveCandidates(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*logs_models.LogServicesHeader, error) {
	return r.list(ctx, "get archive candidates",
		func(db *gorm.DB) *gorm.DB {
			return db.Where(columnDateEntry+" < ?", olderThan).Limit(limit)
		},
		stateInScope(logs_models.TerminalLogStates()),
		preloadHeaderDetails)
}

func preloadHeaderDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Microservices", orderedBy("log_microservice_id")).
		Preload("Contents", orderedBy(columnContentNo+", log_services_content_id"))
}
