package logs_data

import (
	"context"
	"errors"
	"fmt"
	"iter"

	logs_dto "servicelogs/internal/features/logs/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadRepository is the read contract shared by active and historical rows.
type ReadRepository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	GetAll(ctx context.Context) iter.Seq2[*T, error]
	Find(ctx context.Context, scopes ...Scope) iter.Seq2[*T, error]
	// Query returns a composable query bound to the unit of work. It is
	// executed by the caller, so no command timeout is applied.
	Query(ctx context.Context) (*gorm.DB, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, scopes ...Scope) (int64, error)
}

// WriteRepository stages changes; nothing reaches the backend until the
// owning unit of work saves.
type WriteRepository[T any] interface {
	Add(entity *T) error
	AddRange(entities []*T) error
	Update(entity *T) error
	Delete(entity *T) error
}

var byPrimaryKey = clause.OrderByColumn{Column: clause.PrimaryColumn}

type ReadOnlyRepository[T any, PT Entity[T]] struct {
	session *Session
}

func newReadOnlyRepository[T any, PT Entity[T]](session *Session) *ReadOnlyRepository[T, PT] {
	return &ReadOnlyRepository[T, PT]{session: session}
}

// GetByID returns nil without an error when no row has the identifier.
func (r *ReadOnlyRepository[T, PT]) GetByID(ctx context.Context, id int64) (*T, error) {
	return r.first(ctx, "get by id", id)
}

func (r *ReadOnlyRepository[T, PT]) GetAll(ctx context.Context) iter.Seq2[*T, error] {
	return r.Find(ctx)
}

// Find streams matching rows in ascending identifier order. Rows are read
// lazily, so the sequence must be consumed before the unit of work is closed.
func (r *ReadOnlyRepository[T, PT]) Find(ctx context.Context, scopes ...Scope) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		db, err := r.session.queryHandle(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		rows, err := db.Model(new(T)).Scopes(scopes...).Order(byPrimaryKey).Rows()
		if err != nil {
			yield(nil, r.session.wrap("find", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			entity := new(T)
			if err := db.ScanRows(rows, entity); err != nil {
				yield(nil, r.session.wrap("find", err))
				return
			}

			if !yield(entity, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, r.session.wrap("find", err))
		}
	}
}

func (r *ReadOnlyRepository[T, PT]) Query(ctx context.Context) (*gorm.DB, error) {
	db, err := r.session.queryHandle(ctx)
	if err != nil {
		return nil, err
	}

	return db.Model(new(T)), nil
}

func (r *ReadOnlyRepository[T, PT]) Exists(ctx context.Context, id int64) (bool, error) {
	count, err := r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.PrimaryColumn, Value: id})
	})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ReadOnlyRepository[T, PT]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	db, cancel, err := r.session.handle(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	var count int64
	if err := db.Model(new(T)).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, r.session.wrap("count", err)
	}

	return count, nil
}

func (r *ReadOnlyRepository[T, PT]) first(ctx context.Context, op string, id int64, scopes ...Scope) (*T, error) {
	db, cancel, err := r.session.handle(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	entity := new(T)
	if err := db.Scopes(scopes...).Take(entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, r.session.wrap(op, err)
	}

	return entity, nil
}

func (r *ReadOnlyRepository[T, PT]) list(ctx context.Context, op string, scopes ...Scope) ([]*T, error) {
	db, cancel, err := r.session.handle(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	items := make([]*T, 0)
	if err := db.Model(new(T)).Scopes(scopes...).Order(byPrimaryKey).Find(&items).Error; err != nil {
		return nil, r.session.wrap(op, err)
	}

	return items, nil
}

func (r *ReadOnlyRepository[T, PT]) page(
	ctx context.Context,
	op string,
	pagination logs_dto.PaginationParams,
	scopes ...Scope,
) (*logs_dto.PagedResult[*T], error) {
	pagination = pagination.Normalize()

	db, cancel, err := r.session.handle(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var total int64
	if err := db.Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, r.session.wrap(op, err)
	}

	items := make([]*T, 0, pagination.PageSize)
	if total > int64(pagination.Skip()) {
		err := db.Model(new(T)).
			Scopes(scopes...).
			Order(byPrimaryKey).
			Offset(pagination.Skip()).
			Limit(pagination.PageSize).
			Find(&items).Error
		if err != nil {
			return nil, r.session.wrap(op, err)
		}
	}

	return logs_dto.NewPagedResult(items, total, pagination), nil
}

// AppendOnlyRepository can insert but never change or remove rows.
type AppendOnlyRepository[T any, PT Entity[T]] struct {
	*ReadOnlyRepository[T, PT]
}

func newAppendOnlyRepository[T any, PT Entity[T]](session *Session) *AppendOnlyRepository[T, PT] {
	return &AppendOnlyRepository[T, PT]{ReadOnlyRepository: newReadOnlyRepository[T, PT](session)}
}

// Add stages an insert. The identifier is assigned by SaveChanges.
func (r *AppendOnlyRepository[T, PT]) Add(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidOperation)
	}

	return r.AddRange([]*T{entity})
}

// parentRow is implemented by rows that are inserted together with their
// loaded children.
type parentRow interface {
	AssignedChildIDs() []int64
	SnapshotChildKeys() func()
}

// AddRange stages a batch insert that keeps the input order. Loaded children
// are inserted with their parent and must not carry identifiers.
func (r *AppendOnlyRepository[T, PT]) AddRange(entities []*T) error {
	if len(entities) == 0 {
		return nil
	}

	batch := make([]*T, len(entities))
	previousIDs := make([]int64, len(entities))
	for i, entity := range entities {
		if entity == nil {
			return fmt.Errorf("%w: entity at position %d is nil", ErrInvalidOperation, i)
		}

		if parent, ok := any(PT(entity)).(parentRow); ok {
			if ids := parent.AssignedChildIDs(); len(ids) > 0 {
				return fmt.Errorf("%w: entity at position %d has child rows with identifiers %v",
					ErrInvalidOperation, i, ids)
			}
		}

		batch[i] = entity
		previousIDs[i] = PT(entity).GetID()
	}

	var restoreChildren []func()

	return r.session.track(pendingChange{
		kind: changeInsert,
		apply: func(tx *gorm.DB) *gorm.DB {
			restoreChildren = restoreChildren[:0]
			for _, entity := range batch {
				if parent, ok := any(PT(entity)).(parentRow); ok {
					restoreChildren = append(restoreChildren, parent.SnapshotChildKeys())
				}
			}

			return tx.Create(&batch)
		},
		restore: func() {
			for i, entity := range batch {
				PT(entity).SetID(previousIDs[i])
			}

			for _, restore := range restoreChildren {
				restore()
			}
		},
	})
}

// Repository is the full read-write repository for active rows.
type Repository[T any, PT MutableEntity[T]] struct {
	*AppendOnlyRepository[T, PT]
}

func newRepository[T any, PT MutableEntity[T]](session *Session) *Repository[T, PT] {
	return &Repository[T, PT]{AppendOnlyRepository: newAppendOnlyRepository[T, PT](session)}
}

// Add rejects entities that already carry an identifier.
func (r *Repository[T, PT]) Add(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidOperation)
	}

	return r.AddRange([]*T{entity})
}

func (r *Repository[T, PT]) AddRange(entities []*T) error {
	for i, entity := range entities {
		if entity != nil && PT(entity).GetID() != 0 {
			return fmt.Errorf("%w: entity at position %d already has identifier %d",
				ErrInvalidOperation, i, PT(entity).GetID())
		}
	}

	return r.AppendOnlyRepository.AddRange(entities)
}

// Update stages a full-row update. An entity whose identifier was never
// assigned, or that no longer exists, is skipped silently.
func (r *Repository[T, PT]) Update(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidOperation)
	}

	return r.session.track(pendingChange{
		kind: changeUpdate,
		apply: func(tx *gorm.DB) *gorm.DB {
			if PT(entity).GetID() == 0 {
				return nil
			}

			return tx.Model(entity).Select("*").Omit(clause.Associations).Updates(entity)
		},
	})
}

// Delete stages removal of the row and its child rows.
func (r *Repository[T, PT]) Delete(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidOperation)
	}

	return r.session.track(pendingChange{
		kind: changeDelete,
		apply: func(tx *gorm.DB) *gorm.DB {
			if PT(entity).GetID() == 0 {
				return nil
			}

			return tx.Select(clause.Associations).Delete(entity)
		},
	})
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	items := make([]*T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
