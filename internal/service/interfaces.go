package service

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncService is the server-side reconciliation engine: batch last-write-wins
// arbitration, full snapshot assembly, and single-entity reads.
type SyncService interface {
	// Reconcile arbitrates every record of req independently against the
	// stored state of userID. One record's failure never aborts the batch;
	// the user's sync marker advances unconditionally once the batch is done.
	Reconcile(ctx context.Context, userID int64, req models.ReconcileRequest) (models.ReconcileResponse, error)

	// Snapshot returns the user's complete dataset: all three collections
	// (soft-deleted records included) plus tags and categories.
	Snapshot(ctx context.Context, userID int64) (models.SnapshotResponse, error)

	// GetEntity fetches a single record. Returns store.ErrEntityNotFound
	// (wrapped) when the record does not exist.
	GetEntity(ctx context.Context, userID int64, entityType models.EntityType, id string) (models.Entity, error)

	// LastSyncMarker returns the unix-millisecond timestamp of the user's
	// last completed reconcile batch, or zero when the user has never synced.
	LastSyncMarker(ctx context.Context, userID int64) (int64, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// entityStore is the subset of store.EntityRepository the reconciliation
// engine needs; narrowed for test stubs.
type entityStore interface {
	GetByID(ctx context.Context, entityType models.EntityType, id string, userID int64) (models.Entity, error)
	GetAllByUser(ctx context.Context, userID int64, filter store.EntityFilter) ([]models.Entity, error)
	Insert(ctx context.Context, entity models.Entity) error
	Update(ctx context.Context, entity models.Entity) error
}
