package logs_data

import (
	"context"

	logs_models "servicelogs/internal/features/logs/models"
)

type ContentRepository interface {
	ReadRepository[logs_models.LogServicesContent]
	WriteRepository[logs_models.LogServicesContent]

	// GetByLogID returns the header's content in ContentNo order.
	GetByLogID(ctx context.Context, logID int64) ([]*logs_models.LogServicesContent, error)
	SearchByContentText(ctx context.Context, term string) ([]*logs_models.LogServicesContent, error)
}

type contentRepository struct {
	*Repository[logs_models.LogServicesContent, *logs_models.LogServicesContent]
}

func newContentRepository(session *Session) *contentRepository {
	return &contentRepository{
		Repository: newRepository[logs_models.LogServicesContent](session),
	}
}

func (r *contentRepository) GetByLogID(
	ctx context.Context,
	logID int64,
) ([]*logs_models.LogServicesContent, error) {
	return r.list(ctx, "get contents by header",
		equalsScope(columnLogID, logID),
		orderedBy(columnContentNo))
}

func (r *contentRepository) SearchByContentText(
	ctx context.Context,
	term string,
) ([]*logs_models.LogServicesContent, error) {
	return r.list(ctx, "search contents", textSearchScope(columnContentText, term))
}
