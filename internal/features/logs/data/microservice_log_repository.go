package logs_data

import (
	"context"

	logs_models "servicelogs/internal/features/logs/models"
)

type MicroserviceLogRepository interface {
	ReadRepository[logs_models.LogMicroservice]
	WriteRepository[logs_models.LogMicroservice]

	GetByLogID(ctx context.Context, logID int64) ([]*logs_models.LogMicroservice, error)
	SearchByText(ctx context.Context, term string) ([]*logs_models.LogMicroservice, error)
}

type microserviceLogRepository struct {
	*Repository[logs_models.LogMicroservice, *logs_models.LogMicroservice]
}

func newMicroserviceLogRepository(session *Session) *microserviceLogRepository {
	return &microserviceLogRepository{
		Repository: newRepository[logs_models.LogMicroservice](session),
	}
}

func (r *microserviceLogRepository) GetByLogID(
	ctx context.Context,
	logID int64,
) ([]*logs_models.LogMicroservice, error) {
	return r.list(ctx, "get microservice logs by header", equalsScope(columnLogID, logID))
}

func (r *microserviceLogRepository) SearchByText(
	ctx context.Context,
	term string,
) ([]*logs_models.LogMicroservice, error) {
	return r.list(ctx, "search microservice logs", textSearchScope(columnLogText, term))
}
