package logs_data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"servicelogs/internal/storage"
	"servicelogs/internal/util/logger"

	"gorm.io/gorm"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

func (k changeKind) String() string {
	switch k {
	case changeInsert:
		return "insert"
	case changeUpdate:
		return "update"
	default:
		return "delete"
	}
}

type pendingChange struct {
	kind changeKind
	// apply returns nil when the change turns out to be a no-op.
	apply func(tx *gorm.DB) *gorm.DB
	// restore undoes in-memory effects of a failed flush.
	restore func()
}

// Session is the state one unit of work shares with its repositories: the
// backend handle, the open transaction and the pending changes. It is owned
// by a single caller and is not safe for concurrent use.
type Session struct {
	dataSource storage.DataSourceType
	db         *gorm.DB
	tx         *gorm.DB
	options    storage.BackendOptions
	classify   errorClassifier
	pending    []pendingChange
	// flushed holds changes saved inside the open transaction.
	flushed []pendingChange
	closed  bool
	logger  *slog.Logger
}

func newSession(backend *storage.Backend, classify errorClassifier, log *slog.Logger) *Session {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Session{
		dataSource: backend.Type,
		db:         backend.DB,
		options:    backend.Options,
		classify:   classify,
		logger:     log.With(slog.String("dataSource", backend.Type.String())),
	}
}

// handle returns the connection to use for one command, bounded by the
// backend's command timeout.
func (s *Session) handle(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	if s.closed {
		return nil, nil, closedError()
	}

	ctx, cancel := s.options.WithCommandTimeout(ctx)

	return s.current().WithContext(ctx), cancel, nil
}

// queryHandle is like handle but without a deadline, because the caller
// decides when the returned query is executed.
func (s *Session) queryHandle(ctx context.Context) (*gorm.DB, error) {
	if s.closed {
		return nil, closedError()
	}

	return s.current().WithContext(ctx), nil
}

func (s *Session) current() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}

	return s.db
}

func (s *Session) track(change pendingChange) error {
	if s.closed {
		return closedError()
	}

	s.pending = append(s.pending, change)
	return nil
}

func (s *Session) pendingCount() int {
	return len(s.pending)
}

func (s *Session) saveChanges(ctx context.Context) (int64, error) {
	db, cancel, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	if len(s.pending) == 0 {
		return 0, nil
	}

	var affected int64

	// Inside an explicit transaction gorm nests this as a savepoint, so a
	// failed flush does not abort the caller's transaction.
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, change := range s.pending {
			result := change.apply(tx)
			if result == nil {
				continue
			}

			if result.Error != nil {
				return fmt.Errorf("%s: %w", change.kind, result.Error)
			}

			affected += result.RowsAffected
		}

		return nil
	})
	if err != nil {
		for _, change := range s.pending {
			if change.restore != nil {
				change.restore()
			}
		}

		s.logger.Error("Failed to save changes",
			slog.Int("pendingChanges", len(s.pending)),
			slog.String("error", err.Error()))

		return 0, s.wrap("save changes", err)
	}

	if s.tx != nil {
		s.flushed = append(s.flushed, s.pending...)
	}
	s.pending = nil

	return affected, nil
}

func (s *Session) beginTransaction(ctx context.Context) error {
	if s.closed {
		return closedError()
	}

	if s.tx != nil {
		return fmt.Errorf("%w: a transaction is already in progress", ErrInvalidOperation)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return s.wrap("begin transaction", tx.Error)
	}

	s.tx = tx
	s.logger.Debug("Transaction started")

	return nil
}

func (s *Session) commit() error {
	if s.closed {
		return closedError()
	}

	if s.tx == nil {
		return fmt.Errorf("%w: no transaction in progress", ErrInvalidOperation)
	}

	tx := s.tx
	s.tx = nil

	if err := tx.Commit().Error; err != nil {
		s.restoreFlushed()
		return s.wrap("commit", err)
	}

	s.flushed = nil

	s.logger.Debug("Transaction committed")

	return nil
}

// rollback discards the transaction, including changes already flushed in it,
// and every change still pending. Rows inserted inside the transaction get
// their previous identifiers back.
func (s *Session) rollback() error {
	if s.closed {
		return closedError()
	}

	if s.tx == nil {
		return fmt.Errorf("%w: no transaction in progress", ErrInvalidOperation)
	}

	tx := s.tx
	s.tx = nil
	s.pending = nil
	s.restoreFlushed()

	if err := tx.Rollback().Error; err != nil {
		return s.wrap("rollback", err)
	}

	s.logger.Debug("Transaction rolled back")

	return nil
}

func (s *Session) restoreFlushed() {
	for i := len(s.flushed) - 1; i >= 0; i-- {
		if restore := s.flushed[i].restore; restore != nil {
			restore()
		}
	}

	s.flushed = nil
}

func (s *Session) inTransaction() bool {
	return s.tx != nil
}

func (s *Session) close() error {
	if s.closed {
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.rollback()
	}

	s.pending = nil
	s.closed = true

	return err
}

func (s *Session) wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidOperation) {
		return err
	}

	return &PersistenceError{
		Op:         op,
		DataSource: s.dataSource,
		Kind:       s.classify(err),
		Err:        err,
	}
}
