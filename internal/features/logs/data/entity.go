package logs_data

import "gorm.io/gorm"

// Scope is a composable query predicate, applied with gorm's Scopes.
type Scope = func(*gorm.DB) *gorm.DB

// Entity is satisfied by pointers to mapped log rows.
type Entity[T any] interface {
	*T
	GetID() int64
	SetID(id int64)
}

// MutableEntity is satisfied only by active rows. Historical mirrors do not
// implement IsMutable, so an updatable repository cannot be built for them.
type MutableEntity[T any] interface {
	Entity[T]
	IsMutable() bool
}
