package logs_data

import (
	"context"
	"log/slog"

	"servicelogs/internal/storage"
)

// UnitOfWork bundles the log repositories over one backend session. Changes
// staged through any repository become visible only after SaveChanges, and
// only durable after Commit when an explicit transaction is open.
type UnitOfWork interface {
	DataSource() storage.DataSourceType

	Headers() HeaderRepository
	MicroserviceLogs() MicroserviceLogRepository
	Contents() ContentRepository
	HistoricalHeaders() HistoricalHeaderRepository

	// Session is shared by every repository obtained from this unit of work,
	// including those built with GetRepository.
	Session() *Session

	// SaveChanges flushes pending changes atomically and returns the number
	// of rows affected.
	SaveChanges(ctx context.Context) (int64, error)
	BeginTransaction(ctx context.Context) error
	Commit() error
	Rollback() error
	InTransaction() bool
	HasPendingChanges() bool

	// Close rolls back an open transaction and releases the session. It is
	// safe to call more than once.
	Close() error
}

// GetRepository returns a read-write repository bound to the unit of work.
// Only entities with a MutableEntity pointer type are accepted.
func GetRepository[T any, PT MutableEntity[T]](uow UnitOfWork) *Repository[T, PT] {
	return newRepository[T, PT](uow.Session())
}

// GetAppendOnlyRepository returns a repository that can read and insert but
// never update or delete.
func GetAppendOnlyRepository[T any, PT Entity[T]](uow UnitOfWork) *AppendOnlyRepository[T, PT] {
	return newAppendOnlyRepository[T, PT](uow.Session())
}

func GetReadOnlyRepository[T any, PT Entity[T]](uow UnitOfWork) *ReadOnlyRepository[T, PT] {
	return newReadOnlyRepository[T, PT](uow.Session())
}

// NewUnitOfWork picks the variant matching the backend's data source.
func NewUnitOfWork(backend *storage.Backend, logger *slog.Logger) (UnitOfWork, error) {
	switch backend.Type {
	case storage.DataSourcePostgreSQL:
		return NewPostgresUnitOfWork(backend, logger), nil
	case storage.DataSourceSqlServer:
		return NewSqlServerUnitOfWork(backend, logger), nil
	default:
		return nil, storage.ErrDataSourceUnavailable
	}
}

// unitOfWork holds what both backend variants share.
type unitOfWork struct {
	session           *Session
	headers           *headerRepository
	microserviceLogs  *microserviceLogRepository
	contents          *contentRepository
	historicalHeaders *historicalHeaderRepository
}

func newUnitOfWork(backend *storage.Backend, classify errorClassifier, logger *slog.Logger) unitOfWork {
	session := newSession(backend, classify, logger)

	return unitOfWork{
		session:           session,
		headers:           newHeaderRepository(session),
		microserviceLogs:  newMicroserviceLogRepository(session),
		contents:          newContentRepository(session),
		historicalHeaders: newHistoricalHeaderRepository(session),
	}
}

func (u *unitOfWork) DataSource() storage.DataSourceType {
	return u.session.dataSource
}

func (u *unitOfWork) Headers() HeaderRepository {
	return u.headers
}

func (u *unitOfWork) MicroserviceLogs() MicroserviceLogRepository {
	return u.microserviceLogs
}

func (u *unitOfWork) Contents() ContentRepository {
	return u.contents
}

func (u *unitOfWork) HistoricalHeaders() HistoricalHeaderRepository {
	return u.historicalHeaders
}

func (u *unitOfWork) Session() *Session {
	return u.session
}

func (u *unitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	return u.session.saveChanges(ctx)
}

func (u *unitOfWork) BeginTransaction(ctx context.Context) error {
	return u.session.beginTransaction(ctx)
}

func (u *unitOfWork) Commit() error {
	return u.session.commit()
}

func (u *unitOfWork) Rollback() error {
	return u.session.rollback()
}

func (u *unitOfWork) InTransaction() bool {
	return u.session.inTransaction()
}

func (u *unitOfWork) HasPendingChanges() bool {
	return u.session.pendingCount() > 0
}

func (u *unitOfWork) Close() error {
	return u.session.close()
}
