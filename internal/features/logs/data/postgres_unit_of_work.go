package logs_data

import (
	"errors"
	"log/slog"
	"strings"

	"servicelogs/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresUnitOfWork struct {
	unitOfWork
}

var _ UnitOfWork = (*PostgresUnitOfWork)(nil)

func NewPostgresUnitOfWork(backend *storage.Backend, logger *slog.Logger) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{unitOfWork: newUnitOfWork(backend, classifyPostgresError, logger)}
}

func classifyPostgresError(err error) PersistenceErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return PersistenceErrorConstraint
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01", pgErr.Code == "57P03":
			return PersistenceErrorConnectivity
		case pgErr.Code == "57014":
			return PersistenceErrorTimeout
		}
	}

	if pgconn.Timeout(err) {
		return PersistenceErrorTimeout
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return PersistenceErrorConnectivity
	}

	return classifyCommonError(err)
}
