// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// maxReplayAttempts is the replay budget of a queued operation. The failure
// that exhausts it moves the operation to the dead-letter list.
const maxReplayAttempts = 3

// syncCoordinator implements SyncCoordinator. All mutable state lives behind
// mu; the draining flag guarantees at most one queue drain at any moment no
// matter how many triggers fire (reconnect listener, periodic job, manual).
type syncCoordinator struct {
	queue       store.QueueRepository
	conflicts   store.ConflictRepository
	deadLetters store.DeadLetterRepository
	kv          store.KVRepository
	adapter     adapter.ServerAdapter
	monitor     ConnectivityMonitor

	logger *logger.Logger

	// baseCtx bounds the background drains spawned by reconnect transitions.
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	draining    bool
	status      models.SyncStatus
	progress    models.SyncProgress
	queueLength int
	subscribers map[int]func(models.CoordinatorSnapshot)
	nextSubID   int
}

// NewSyncCoordinator constructs the coordinator over the client repositories
// and subscribes it to connectivity transitions: going offline flips the
// status, coming back online triggers exactly one background drain.
func NewSyncCoordinator(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, monitor ConnectivityMonitor, logger *logger.Logger) SyncCoordinator {
	baseCtx, cancel := context.WithCancel(context.Background())

	c := &syncCoordinator{
		queue:       storages.Queue,
		conflicts:   storages.Conflicts,
		deadLetters: storages.DeadLetters,
		kv:          storages.KV,
		adapter:     serverAdapter,
		monitor:     monitor,
		logger:      logger,
		baseCtx:     baseCtx,
		cancel:      cancel,
		subscribers: make(map[int]func(models.CoordinatorSnapshot)),
	}

	c.status = models.StatusSynced
	if !monitor.IsOnline() {
		c.status = models.StatusOffline
	}
	if length, err := storages.Queue.Len(baseCtx); err == nil {
		c.queueLength = length
		if length > 0 && c.status == models.StatusSynced {
			c.status = models.StatusFailed
		}
	}

	monitor.Subscribe(c.onConnectivityChange)

	return c
}

// RunOrQueueMutation implements SyncCoordinator.
func (c *syncCoordinator) RunOrQueueMutation(ctx context.Context, op models.QueuedOperation) (models.MutationResult, error) {
	if c.isClosed() {
		return models.MutationResult{}, ErrCoordinatorClosed
	}

	log := logger.FromContext(ctx)

	if !c.monitor.IsOnline() {
		if err := c.queue.Enqueue(ctx, op); err != nil {
			return models.MutationResult{}, fmt.Errorf("enqueue operation %s: %w", op.Name, err)
		}
		c.update(ctx, func() { c.status = models.StatusOffline })
		return models.MutationResult{Queued: true}, nil
	}

	resp, err := c.execute(ctx, op)
	if err != nil {
		if adapter.IsNetworkError(err) {
			log.Err(err).Str("op", string(op.Name)).Msg("remote call failed, queueing operation")
			c.monitor.SetOnline(false)
			if enqueueErr := c.queue.Enqueue(ctx, op); enqueueErr != nil {
				return models.MutationResult{}, fmt.Errorf("enqueue operation %s: %w", op.Name, enqueueErr)
			}
			c.update(ctx, func() { c.status = models.StatusOffline })
			return models.MutationResult{Queued: true}, nil
		}

		c.update(ctx, func() { c.status = models.StatusFailed })
		return models.MutationResult{}, err
	}

	c.recordLastSync(ctx, resp.ServerTimestamp)

	length, lenErr := c.queue.Len(ctx)
	c.update(ctx, func() {
		if lenErr == nil && length == 0 {
			c.status = models.StatusSynced
		} else {
			c.status = models.StatusFailed
		}
	})

	return models.MutationResult{Results: resp.Results}, nil
}

// DrainQueue implements SyncCoordinator.
func (c *syncCoordinator) DrainQueue(ctx context.Context) error {
	if c.isClosed() {
		return ErrCoordinatorClosed
	}

	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return nil
	}
	c.draining = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.draining = false
		c.mu.Unlock()
	}()

	log := logger.FromContext(ctx)

	total, err := c.queue.Len(ctx)
	if err != nil {
		return fmt.Errorf("queue length: %w", err)
	}
	if total == 0 {
		if c.monitor.IsOnline() {
			c.update(ctx, func() {
				c.status = models.StatusSynced
				c.progress = models.SyncProgress{}
			})
		}
		return nil
	}

	c.update(ctx, func() {
		c.status = models.StatusSyncing
		c.progress = models.SyncProgress{Completed: 0, Total: total}
	})

	var lastServerTS int64
	completed := 0
	for {
		op, peekErr := c.queue.PeekFront(ctx)
		if errors.Is(peekErr, store.ErrQueueEmpty) {
			break
		}
		if peekErr != nil {
			c.update(ctx, func() { c.status = models.StatusFailed })
			return fmt.Errorf("peek queue front: %w", peekErr)
		}

		resp, execErr := c.execute(ctx, op)
		if execErr != nil {
			if adapter.IsNetworkError(execErr) {
				// The head stays queued; the queue itself is the resume
				// checkpoint for the next drain.
				log.Err(execErr).Str("op", string(op.Name)).Msg("drain interrupted by network failure")
				c.monitor.SetOnline(false)
				c.update(ctx, func() { c.status = models.StatusOffline })
				return nil
			}
			return c.failAttempt(ctx, op, execErr)
		}

		if _, dequeueErr := c.queue.DequeueFront(ctx); dequeueErr != nil {
			c.update(ctx, func() { c.status = models.StatusFailed })
			return fmt.Errorf("dequeue completed operation: %w", dequeueErr)
		}

		lastServerTS = resp.ServerTimestamp
		completed++
		c.update(ctx, func() { c.progress.Completed = completed })
	}

	if lastServerTS > 0 {
		c.recordLastSync(ctx, lastServerTS)
	}
	c.update(ctx, func() {
		c.status = models.StatusSynced
		c.progress = models.SyncProgress{}
	})

	return nil
}

// execute replays a single operation as a batch-of-one reconcile call.
//
// A "server_newer" rejection is a data outcome, not a failure: the local and
// server copies are paired into the conflict ledger and the operation counts
// as done. Any other rejection reason is returned as ErrRecordRejected so the
// bounded-retry path applies.
func (c *syncCoordinator) execute(ctx context.Context, op models.QueuedOperation) (models.ReconcileResponse, error) {
	entity, err := op.DecodeEntity()
	if err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("operation %s: %w", op.ID, err)
	}

	req := batchOfOne(op.Name.EntityType(), entity)
	resp, err := c.adapter.Reconcile(ctx, req)
	if err != nil {
		return models.ReconcileResponse{}, err
	}

	for _, result := range resp.Results {
		if result.Success {
			continue
		}
		if result.Reason == models.ReasonServerNewer {
			if conflictErr := c.recordConflict(ctx, op.ID, entity); conflictErr != nil {
				return resp, conflictErr
			}
			continue
		}
		return resp, fmt.Errorf("%w: %s (%s/%s)", ErrRecordRejected, result.Reason, result.Type, result.ID)
	}

	return resp, nil
}

// recordConflict pairs the rejected local write with the server's copy and
// saves the ledger entry keyed by the operation ID, so a replayed rejection
// overwrites its own entry instead of duplicating it.
func (c *syncCoordinator) recordConflict(ctx context.Context, opID string, local models.Entity) error {
	log := logger.FromContext(ctx)

	serverCopy, err := c.adapter.FetchEntity(ctx, local.Type, local.ID)
	if err != nil {
		if adapter.IsNetworkError(err) {
			return err
		}
		// The arbitration verdict stands even when the server copy cannot be
		// read back; record the conflict with the local side only.
		log.Err(err).Str("id", local.ID).Msg("fetch of winning server copy failed")
		serverCopy = models.Entity{}
	}

	title := serverCopy.Title
	if title == "" {
		title = local.Title
	}

	rec := models.ConflictRecord{
		ID:              opID,
		EntityType:      local.Type,
		EntityID:        local.ID,
		EntityTitle:     title,
		LocalTitle:      local.Title,
		LocalContent:    local.Content,
		ServerTitle:     serverCopy.Title,
		ServerContent:   serverCopy.Content,
		LocalUpdatedAt:  local.UpdatedAt,
		ServerUpdatedAt: serverCopy.UpdatedAt,
		CreatedAt:       time.Now(),
	}

	if err := c.conflicts.Save(ctx, rec); err != nil {
		return fmt.Errorf("save conflict record: %w", err)
	}

	log.Info().
		Str("id", local.ID).
		Int64("localUpdatedAt", rec.LocalUpdatedAt).
		Int64("serverUpdatedAt", rec.ServerUpdatedAt).
		Msg("conflict recorded")

	return nil
}

// failAttempt handles a non-network replay failure of the queue head: the
// attempt counter is bumped, and the operation either re-enters at the back
// of the queue or, on its final failure, moves to the dead-letter list.
func (c *syncCoordinator) failAttempt(ctx context.Context, op models.QueuedOperation, cause error) error {
	log := logger.FromContext(ctx)

	if err := c.queue.IncrementAttempt(ctx, op.ID); err != nil {
		log.Err(err).Str("opID", op.ID).Msg("attempt counter update failed")
	}
	op.AttemptCount++

	if op.AttemptCount >= maxReplayAttempts {
		rec := models.DeadLetterRecord{
			ID:          op.ID,
			OperationID: op.ID,
			Name:        op.Name,
			Payload:     op.Payload,
			EnqueuedAt:  op.EnqueuedAt,
			LastError:   cause.Error(),
			FailedAt:    time.Now(),
		}
		if err := c.deadLetters.Save(ctx, rec); err != nil {
			c.update(ctx, func() { c.status = models.StatusFailed })
			return fmt.Errorf("save dead letter: %w", err)
		}
		if _, err := c.queue.DequeueFront(ctx); err != nil {
			c.update(ctx, func() { c.status = models.StatusFailed })
			return fmt.Errorf("dequeue dead-lettered operation: %w", err)
		}
		log.Error().Str("opID", op.ID).Str("op", string(op.Name)).Msg("operation moved to dead letters")
	} else {
		// RequeueToBack moves the head atomically, so a crash mid-replay
		// cannot lose the operation.
		if err := c.queue.RequeueToBack(ctx, op); err != nil {
			c.update(ctx, func() { c.status = models.StatusFailed })
			return fmt.Errorf("requeue failed operation: %w", err)
		}
	}

	c.update(ctx, func() { c.status = models.StatusFailed })
	return fmt.Errorf("replay %s: %w", op.Name, cause)
}

// GetSnapshot implements SyncCoordinator.
func (c *syncCoordinator) GetSnapshot(ctx context.Context) models.CoordinatorSnapshot {
	length, err := c.queue.Len(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.queueLength = length
	}
	return models.CoordinatorSnapshot{
		IsOnline:    c.monitor.IsOnline(),
		Status:      c.status,
		QueueLength: c.queueLength,
		Progress:    c.progress,
	}
}

// Subscribe implements SyncCoordinator.
func (c *syncCoordinator) Subscribe(fn func(models.CoordinatorSnapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close implements SyncCoordinator.
func (c *syncCoordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.subscribers = make(map[int]func(models.CoordinatorSnapshot))
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// onConnectivityChange reacts to netmon transitions. Edge triggering on the
// monitor side plus the draining flag here means one reconnect produces
// exactly one drain.
func (c *syncCoordinator) onConnectivityChange(online bool) {
	if !online {
		c.update(c.baseCtx, func() { c.status = models.StatusOffline })
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := c.DrainQueue(c.baseCtx); err != nil {
			c.logger.Err(err).Msg("reconnect drain failed")
		}
	}()
}

// update applies a state mutation, refreshes the cached queue length, and
// notifies subscribers outside the lock. The resulting status is mirrored
// into the kv table so it survives restarts.
func (c *syncCoordinator) update(ctx context.Context, mutate func()) {
	length, lenErr := c.queue.Len(ctx)

	c.mu.Lock()
	prevStatus := c.status
	mutate()
	if lenErr == nil {
		c.queueLength = length
	}
	snapshot := models.CoordinatorSnapshot{
		IsOnline:    c.monitor.IsOnline(),
		Status:      c.status,
		QueueLength: c.queueLength,
		Progress:    c.progress,
	}
	subscribers := make([]func(models.CoordinatorSnapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	if snapshot.Status != prevStatus {
		if err := c.kv.Set(ctx, store.KVLastSyncStatus, string(snapshot.Status)); err != nil {
			c.logger.Err(err).Msg("persist sync status failed")
		}
	}

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// recordLastSync mirrors the server clock of the last completed reconcile
// batch into the kv table.
func (c *syncCoordinator) recordLastSync(ctx context.Context, serverTS int64) {
	if err := c.kv.Set(ctx, store.KVLastSyncTS, strconv.FormatInt(serverTS, 10)); err != nil {
		c.logger.Err(err).Msg("persist last sync timestamp failed")
	}
}

func (c *syncCoordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// batchOfOne wraps a single entity into the reconcile wire shape.
func batchOfOne(entityType models.EntityType, entity models.Entity) models.ReconcileRequest {
	var req models.ReconcileRequest
	switch entityType {
	case models.EntityTasks:
		req.Tasks = []models.Entity{entity}
	case models.EntityJournal:
		req.Journal = []models.Entity{entity}
	default:
		req.Items = []models.Entity{entity}
	}
	return req
}
