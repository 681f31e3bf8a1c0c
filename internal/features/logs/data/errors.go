package logs_data

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"servicelogs/internal/storage"

	"gorm.io/gorm"
)

// ErrInvalidOperation marks misuse of the unit of work: a second
// BeginTransaction, Commit without a transaction, or any call after Close.
var ErrInvalidOperation = errors.New("invalid operation")

type PersistenceErrorKind string

const (
	PersistenceErrorConstraint   PersistenceErrorKind = "CONSTRAINT_VIOLATION"
	PersistenceErrorConnectivity PersistenceErrorKind = "CONNECTIVITY"
	PersistenceErrorTimeout      PersistenceErrorKind = "TIMEOUT"
	PersistenceErrorUnknown      PersistenceErrorKind = "UNKNOWN"
)

// PersistenceError is returned for every backend failure during a query,
// a save, or transaction control, after the driver's own retries.
type PersistenceError struct {
	Op         string
	DataSource storage.DataSourceType
	Kind       PersistenceErrorKind
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed on %s (%s): %v", e.Op, e.DataSource, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type errorClassifier func(err error) PersistenceErrorKind

func classifyCommonError(err error) PersistenceErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return PersistenceErrorTimeout
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return PersistenceErrorConstraint
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.ErrUnexpectedEOF):
		return PersistenceErrorConnectivity
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return PersistenceErrorTimeout
		}

		return PersistenceErrorConnectivity
	}

	return PersistenceErrorUnknown
}

func closedError() error {
	return fmt.Errorf("%w: unit of work is closed", ErrInvalidOperation)
}
