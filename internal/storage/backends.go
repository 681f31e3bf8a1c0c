package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BackendOptions holds the per-backend driver policy. It is configured once
// at startup and never per call.
type BackendOptions struct {
	MaxRetryCount  int
	RetryDelay     time.Duration
	CommandTimeout time.Duration
	MaxOpenConns   int
}

func DefaultBackendOptions() BackendOptions {
	return BackendOptions{
		MaxRetryCount:  3,
		RetryDelay:     500 * time.Millisecond,
		CommandTimeout: 30 * time.Second,
		MaxOpenConns:   20,
	}
}

// WithCommandTimeout bounds a single database command. A zero timeout leaves
// the context untouched.
func (o BackendOptions) WithCommandTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.CommandTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, o.CommandTimeout)
}

type Backend struct {
	Type    DataSourceType
	DB      *gorm.DB
	Options BackendOptions
}

// Backends is the immutable set of configured backends, computed once at
// process start. It is safe for concurrent use.
type Backends struct {
	ordered []*Backend
	byType  map[DataSourceType]*Backend
}

func NewBackends(backends ...*Backend) (*Backends, error) {
	result := &Backends{
		ordered: make([]*Backend, 0, len(backends)),
		byType:  make(map[DataSourceType]*Backend, len(backends)),
	}

	for _, backend := range backends {
		if backend == nil || backend.DB == nil {
			return nil, errors.New("backend must have an open database handle")
		}

		if !backend.Type.IsValid() {
			return nil, fmt.Errorf("invalid data source type: %d", int(backend.Type))
		}

		if _, exists := result.byType[backend.Type]; exists {
			return nil, fmt.Errorf("data source %s registered twice", backend.Type)
		}

		result.ordered = append(result.ordered, backend)
		result.byType[backend.Type] = backend
	}

	return result, nil
}

func (b *Backends) Get(dataSource DataSourceType) (*Backend, bool) {
	backend, ok := b.byType[dataSource]
	return backend, ok
}

func (b *Backends) Has(dataSource DataSourceType) bool {
	_, ok := b.byType[dataSource]
	return ok
}

// Types returns the available data sources in registration order.
func (b *Backends) Types() []DataSourceType {
	types := make([]DataSourceType, 0, len(b.ordered))
	for _, backend := range b.ordered {
		types = append(types, backend.Type)
	}

	return types
}

func (b *Backends) All() []*Backend {
	return append([]*Backend(nil), b.ordered...)
}

func (b *Backends) Close() error {
	var errs []error

	for _, backend := range b.ordered {
		sqlDB, err := backend.DB.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get %s connection pool: %w", backend.Type, err))
			continue
		}

		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s connection pool: %w", backend.Type, err))
		}
	}

	return errors.Join(errs...)
}
