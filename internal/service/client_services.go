package service

import (
	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

type ClientServices struct {
	AuthService       ClientAuthService
	Coordinator       SyncCoordinator
	EntityService     ClientEntityService
	ConflictService   ConflictService
	DeadLetterService DeadLetterService
	SyncJob           ClientSyncJob
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, monitor ConnectivityMonitor, logger *logger.Logger) *ClientServices {
	coordinator := NewSyncCoordinator(storages, serverAdapter, monitor, logger)

	return &ClientServices{
		AuthService:       NewClientAuthService(serverAdapter, logger),
		Coordinator:       coordinator,
		EntityService:     NewClientEntityService(storages.Entities, coordinator, logger),
		ConflictService:   NewConflictService(storages.Conflicts, storages.Entities, serverAdapter, monitor, coordinator, logger),
		DeadLetterService: NewDeadLetterService(storages.DeadLetters, storages.Queue, logger),
		SyncJob:           NewClientSyncJob(coordinator, serverAdapter, storages.Entities, monitor, logger),
	}
}
