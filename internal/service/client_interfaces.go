package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/netmon"
	"github.com/MKhiriev/go-note-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ConnectivityMonitor is the coordinator's view of the network state monitor.
// Satisfied by *netmon.Monitor.
type ConnectivityMonitor interface {
	IsOnline() bool
	SetOnline(online bool)
	Subscribe(fn netmon.Listener)
}

// SyncCoordinator is the client-side offline coordinator: a state machine
// over {Synced, Syncing, Offline, Failed} that owns the durable mutation
// queue and decides, per mutation, between immediate remote execution and
// queueing for later replay.
type SyncCoordinator interface {
	// RunOrQueueMutation executes op against the server when online, or
	// enqueues it when offline. A network-class failure of the immediate
	// attempt also falls back to the queue; the caller's local write is never
	// lost either way. Validation failures surface as errors and are never
	// queued.
	RunOrQueueMutation(ctx context.Context, op models.QueuedOperation) (models.MutationResult, error)

	// DrainQueue replays queued operations strictly one at a time from the
	// front. At most one drain runs at any moment; concurrent calls return
	// immediately. A network-class failure stops the drain with the head
	// operation still queued, so the next drain resumes exactly where this
	// one stopped.
	DrainQueue(ctx context.Context) error

	// GetSnapshot reports the current coordinator state for pull-style
	// consumers.
	GetSnapshot(ctx context.Context) models.CoordinatorSnapshot

	// Subscribe registers fn for push notification on every state change and
	// returns the matching unsubscribe function.
	Subscribe(fn func(models.CoordinatorSnapshot)) (unsubscribe func())

	// Close tears the coordinator down: in-flight drains finish, subscribers
	// are dropped, and subsequent operations fail with ErrCoordinatorClosed.
	Close() error
}

// ClientEntityService is the client-side CRUD surface of the three
// collections. Every mutation is written to the local cache first and then
// handed to the coordinator, so edits survive regardless of connectivity.
type ClientEntityService interface {
	Create(ctx context.Context, entityType models.EntityType, title, content string, extra models.ExtraFields) (models.Entity, models.MutationResult, error)
	Update(ctx context.Context, entity models.Entity) (models.MutationResult, error)
	Delete(ctx context.Context, entityType models.EntityType, id string) (models.MutationResult, error)

	Get(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error)
	List(ctx context.Context, entityType models.EntityType) ([]models.Entity, error)
}

// ConflictService manages the conflict ledger and its manual resolution.
type ConflictService interface {
	List(ctx context.Context) ([]models.ConflictRecord, error)

	// Resolve settles the ledger entry id with the given choice. merged is
	// consulted only for models.ResolutionMerge. Every resolution path
	// removes the ledger entry.
	Resolve(ctx context.Context, id string, choice models.Resolution, merged models.MergePatch) error
}

// DeadLetterService manages operations that exhausted their replay attempts.
type DeadLetterService interface {
	List(ctx context.Context) ([]models.DeadLetterRecord, error)

	// Requeue moves the dead letter back to the queue tail with its attempt
	// counter reset to zero.
	Requeue(ctx context.Context, id string) error

	Discard(ctx context.Context, id string) error
}

// ClientAuthService authenticates the client against the server at startup.
type ClientAuthService interface {
	Register(ctx context.Context, user models.User) error
	Login(ctx context.Context, user models.User) error
}

// ClientSyncJob is the background worker that periodically drains the
// mutation queue and refreshes the local cache from a server snapshot.
type ClientSyncJob interface {
	// Start launches the background goroutine. It runs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
