package store

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// QueueRepository is the durable FIFO mutation queue of the client. Order is
// strict insertion order; an operation consumed from the front is gone for
// good, and a retryable failure re-enters at the back with its attempt
// counter preserved.
type QueueRepository interface {
	// Enqueue appends op to the back of the queue.
	Enqueue(ctx context.Context, op models.QueuedOperation) error

	// PeekFront returns the front operation without consuming it. Returns
	// [ErrQueueEmpty] when the queue is empty.
	PeekFront(ctx context.Context) (models.QueuedOperation, error)

	// DequeueFront removes and returns the front operation. Returns
	// [ErrQueueEmpty] when the queue is empty.
	DequeueFront(ctx context.Context) (models.QueuedOperation, error)

	// RequeueToBack atomically moves op to the back of the queue,
	// preserving its AttemptCount. The operation does not need to be
	// dequeued first.
	RequeueToBack(ctx context.Context, op models.QueuedOperation) error

	// IncrementAttempt bumps the attempt counter of the queued operation
	// with the given ID in place.
	IncrementAttempt(ctx context.Context, opID string) error

	// Len returns the number of pending operations.
	Len(ctx context.Context) (int, error)

	// All returns every pending operation in queue order, front first.
	All(ctx context.Context) ([]models.QueuedOperation, error)
}

// ConflictRepository is the durable conflict ledger.
type ConflictRepository interface {
	Save(ctx context.Context, rec models.ConflictRecord) error
	List(ctx context.Context) ([]models.ConflictRecord, error)

	// GetByID returns [ErrConflictNotFound] when no such ledger entry exists.
	GetByID(ctx context.Context, id string) (models.ConflictRecord, error)
	Delete(ctx context.Context, id string) error
}

// DeadLetterRepository stores operations that exhausted their replay
// attempts.
type DeadLetterRepository interface {
	Save(ctx context.Context, rec models.DeadLetterRecord) error
	List(ctx context.Context) ([]models.DeadLetterRecord, error)

	// GetByID returns [ErrDeadLetterNotFound] when no such record exists.
	GetByID(ctx context.Context, id string) (models.DeadLetterRecord, error)
	Delete(ctx context.Context, id string) error
}

// LocalEntityRepository is the client's local cache of the three
// collections, refreshed from snapshot pulls and updated in place by local
// mutations.
type LocalEntityRepository interface {
	Upsert(ctx context.Context, entity models.Entity) error

	// Get returns [ErrEntityNotFound] when no such record is cached.
	Get(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error)
	GetAll(ctx context.Context, entityType models.EntityType) ([]models.Entity, error)

	// ReplaceAll atomically replaces the whole cache with the contents of a
	// server snapshot.
	ReplaceAll(ctx context.Context, snapshot models.SnapshotResponse) error
}

// KVRepository is a small durable key/value store for client runtime state
// (last sync status, last sync timestamp, session token).
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
