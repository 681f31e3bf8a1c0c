package logs_data

import (
	"context"
	"time"

	logs_dto "servicelogs/internal/features/logs/dto"
	logs_models "servicelogs/internal/features/logs/models"
)

// HistoricalHeaderRepository is read-only. Archived rows are written only by
// the archiving job through an append-only repository.
type HistoricalHeaderRepository interface {
	ReadRepository[logs_models.LogServicesHeaderHistorico]

	GetByDateRange(ctx context.Context, start, end time.Time) ([]*logs_models.LogServicesHeaderHistorico, error)
	GetByState(ctx context.Context, state logs_models.LogState) ([]*logs_models.LogServicesHeaderHistorico, error)
	GetWithDetails(ctx context.Context, id int64) (*logs_models.LogServicesHeaderHistorico, error)
	GetPaged(
		ctx context.Context,
		filter *logs_dto.LogFilter,
		pagination logs_dto.PaginationParams,
	) (*logs_dto.PagedResult[*logs_models.LogServicesHeaderHistorico], error)
}

type historicalHeaderRepository struct {
	*ReadOnlyRepository[logs_models.LogServicesHeaderHistorico, *logs_models.LogServicesHeaderHistorico]
}

func newHistoricalHeaderRepository(session *Session) *historicalHeaderRepository {
	return &historicalHeaderRepository{
		ReadOnlyRepository: newReadOnlyRepository[logs_models.LogServicesHeaderHistorico](session),
	}
}

func (r *historicalHeaderRepository) GetByDateRange(
	ctx context.Context,
	start, end time.Time,
) ([]*logs_models.LogServicesHeaderHistorico, error) {
	return r.list(ctx, "get historical headers by date range", dateRangeScope(start, end))
}

func (r *historicalHeaderRepository) GetByState(
	ctx context.Context,
	state logs_models.LogState,
) ([]*logs_models.LogServicesHeaderHistorico, error) {
	return r.list(ctx, "get historical headers by state", equalsScope(columnState, state))
}

func (r *historicalHeaderRepository) GetWithDetails(
	ctx context.Context,
	id int64,
) (*logs_models.LogServicesHeaderHistorico, error) {
	return r.first(ctx, "get historical header with details", id, preloadHeaderDetails)
}

func (r *historicalHeaderRepository) GetPaged(
	ctx context.Context,
	filter *logs_dto.LogFilter,
	pagination logs_dto.PaginationParams,
) (*logs_dto.PagedResult[*logs_models.LogServicesHeaderHistorico], error) {
	return r.page(ctx, "get paged historical headers", pagination, FilterScope(filter))
}
