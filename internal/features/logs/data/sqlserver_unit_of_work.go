package logs_data

import (
	"errors"
	"log/slog"

	"servicelogs/internal/storage"

	mssql "github.com/microsoft/go-mssqldb"
)

type SqlServerUnitOfWork struct {
	unitOfWork
}

var _ UnitOfWork = (*SqlServerUnitOfWork)(nil)

func NewSqlServerUnitOfWork(backend *storage.Backend, logger *slog.Logger) *SqlServerUnitOfWork {
	return &SqlServerUnitOfWork{unitOfWork: newUnitOfWork(backend, classifySqlServerError, logger)}
}

func classifySqlServerError(err error) PersistenceErrorKind {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		switch msErr.Number {
		// unique index, primary key, foreign key, not null, truncation
		case 2601, 2627, 547, 515, 2628, 8152:
			return PersistenceErrorConstraint
		case -2:
			return PersistenceErrorTimeout
		case 233, 4060, 10053, 10054, 10060, 40613:
			return PersistenceErrorConnectivity
		}
	}

	return classifyCommonError(err)
}
