package store

import "github.com/MKhiriev/go-note-keeper/internal/logger"

// Storages aggregates all server-side repositories.
type Storages struct {
	UserRepository       UserRepository
	EntityRepository     EntityRepository
	ReferenceRepository  ReferenceRepository
	SyncMarkerRepository SyncMarkerRepository
}

// NewStorages wires every server repository over the shared database handle.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, logger),
		EntityRepository:     NewEntityRepository(db, logger),
		ReferenceRepository:  NewReferenceRepository(db, logger),
		SyncMarkerRepository: NewSyncMarkerRepository(db, logger),
	}
}
