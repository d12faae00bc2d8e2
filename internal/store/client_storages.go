package store

import "github.com/MKhiriev/go-note-keeper/internal/logger"

// ClientStorages aggregates all client-side repositories over the local
// SQLite database.
type ClientStorages struct {
	Queue       QueueRepository
	Conflicts   ConflictRepository
	DeadLetters DeadLetterRepository
	Entities    LocalEntityRepository
	KV          KVRepository
}

// NewClientStorages wires every client repository over the shared database
// handle.
func NewClientStorages(db *DB, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		Queue:       NewQueueRepository(db, logger),
		Conflicts:   NewConflictRepository(db, logger),
		DeadLetters: NewDeadLetterRepository(db, logger),
		Entities:    NewLocalEntityRepository(db, logger),
		KV:          NewKVRepository(db, logger),
	}
}
