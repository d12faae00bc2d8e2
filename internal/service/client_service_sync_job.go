package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

// clientSyncJob periodically drains the mutation queue and, while online,
// refreshes the local cache from a server snapshot. The job is idle until
// Start is called.
type clientSyncJob struct {
	coordinator SyncCoordinator
	adapter     adapter.ServerAdapter
	entities    store.LocalEntityRepository
	monitor     ConnectivityMonitor

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClientSyncJob(coordinator SyncCoordinator, serverAdapter adapter.ServerAdapter, entities store.LocalEntityRepository, monitor ConnectivityMonitor, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		coordinator: coordinator,
		adapter:     serverAdapter,
		entities:    entities,
		monitor:     monitor,
		logger:      logger,
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that syncs every interval. If interval is
// zero or negative it defaults to 5 minutes. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.syncOnce(jobCtx)
			}
		}
	}()
}

// Stop implements ClientSyncJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// syncOnce runs one sync cycle: drain first so local edits reach the server
// before the snapshot pull overwrites the cache with server state.
func (j *clientSyncJob) syncOnce(ctx context.Context) {
	if err := j.coordinator.DrainQueue(ctx); err != nil {
		j.logger.Err(err).Msg("periodic drain failed")
		return
	}

	if !j.monitor.IsOnline() {
		return
	}

	snapshot := j.coordinator.GetSnapshot(ctx)
	if snapshot.QueueLength > 0 {
		// Pending local writes would be clobbered by a cache refresh; pull
		// the snapshot on a later cycle once the queue has drained.
		return
	}

	serverSnapshot, err := j.adapter.PullSnapshot(ctx)
	if err != nil {
		if adapter.IsNetworkError(err) {
			j.monitor.SetOnline(false)
			return
		}
		j.logger.Err(err).Msg("snapshot pull failed")
		return
	}

	if err = j.entities.ReplaceAll(ctx, serverSnapshot); err != nil {
		j.logger.Err(err).Msg("local snapshot refresh failed")
	}
}
