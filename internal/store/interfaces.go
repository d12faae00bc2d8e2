// Package store contains all persistence code: the PostgreSQL repositories
// used by the server and the SQLite repositories used by the client.
//
// Server-side repositories are constructed over a shared [DB] connection and
// aggregated by [NewStorages]. Client-side repositories live in the
// client_*.go files and are aggregated by [NewClientStorages].
package store

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository handles user account persistence on the server.
type UserRepository interface {
	// CreateUser persists a new account and returns it with server-assigned
	// fields populated. Returns [ErrLoginAlreadyExists] when the login is
	// taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByLogin looks an account up by user.Login. Returns
	// [ErrNoUserWasFound] when no such account exists.
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
}

// EntityFilter narrows the result set of [EntityRepository.GetAllByUser].
// Zero values mean "no restriction".
type EntityFilter struct {
	// Type restricts results to a single collection.
	Type models.EntityType

	// SinceUpdatedAt, when positive, restricts results to records whose
	// conflict clock is strictly greater than the given unix-millisecond
	// value.
	SinceUpdatedAt int64

	// IncludeDeleted includes soft-deleted records in the result.
	IncludeDeleted bool
}

// EntityRepository handles server-side persistence of notes, tasks, and
// journal entries. All three collections share one table discriminated by
// the entity type.
type EntityRepository interface {
	// GetByID fetches a single record owned by userID. Returns
	// [ErrEntityNotFound] when no such record exists.
	GetByID(ctx context.Context, entityType models.EntityType, id string, userID int64) (models.Entity, error)

	// GetAllByUser fetches the user's records, narrowed by filter.
	GetAllByUser(ctx context.Context, userID int64, filter EntityFilter) ([]models.Entity, error)

	// Insert persists a brand-new record.
	Insert(ctx context.Context, entity models.Entity) error

	// Update overwrites an existing record identified by (entity.ID,
	// entity.UserID), including its soft-delete flag and conflict clock.
	Update(ctx context.Context, entity models.Entity) error
}

// ReferenceRepository serves the server-maintained tag and category
// definitions that clients receive via snapshot pull.
type ReferenceRepository interface {
	GetTags(ctx context.Context, userID int64) ([]models.Tag, error)
	GetCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

// SyncMarkerRepository tracks, per user, the server timestamp of the last
// completed reconciliation batch.
type SyncMarkerRepository interface {
	// Get returns the stored marker, or zero when the user has never synced.
	Get(ctx context.Context, userID int64) (int64, error)

	// Advance stores ts as the user's marker. Advancing is unconditional;
	// rejected records inside a batch do not hold the marker back.
	Advance(ctx context.Context, userID int64, ts int64) error
}
