package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

func newSyncJobFixture(t *testing.T) (*coordinatorFixture, ClientSyncJob) {
	t.Helper()

	f := newCoordinatorFixture(t)
	job := NewClientSyncJob(f.coordinator, f.adapter, f.storages.Entities, f.monitor, logger.Nop())
	t.Cleanup(job.Stop)
	return f, job
}

func TestClientSyncJob_DrainsQueuePeriodically(t *testing.T) {
	f, job := newSyncJobFixture(t)
	enqueueOps(t, f, 2)

	job.Start(context.Background(), 20*time.Millisecond)

	require.Eventually(t, func() bool { return queueLen(t, f) == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"n-1", "n-2"}, f.adapter.reconciledIDs())
}

func TestClientSyncJob_RefreshesSnapshotAfterDrain(t *testing.T) {
	f, job := newSyncJobFixture(t)

	stale := models.Entity{ID: "stale", Type: models.EntityItems, Title: "stale", UpdatedAt: 50}
	require.NoError(t, f.storages.Entities.Upsert(context.Background(), stale))

	fresh := models.Entity{ID: "fresh", Type: models.EntityItems, Title: "fresh", UpdatedAt: 900}
	f.adapter.onPullSnapshot = func() (models.SnapshotResponse, error) {
		return models.SnapshotResponse{
			Items:           []models.Entity{fresh},
			ServerTimestamp: time.Now().UnixMilli(),
		}, nil
	}

	job.Start(context.Background(), 20*time.Millisecond)

	require.Eventually(t, func() bool {
		entities, err := f.storages.Entities.GetAll(context.Background(), models.EntityItems)
		return err == nil && len(entities) == 1 && entities[0].ID == "fresh"
	}, time.Second, 10*time.Millisecond, "the snapshot pull must replace the cache")
}

func TestClientSyncJob_SkipsSnapshotWhileOffline(t *testing.T) {
	f, job := newSyncJobFixture(t)
	f.monitor.SetOnline(false)

	stale := models.Entity{ID: "keep", Type: models.EntityItems, Title: "keep", UpdatedAt: 50}
	require.NoError(t, f.storages.Entities.Upsert(context.Background(), stale))

	job.Start(context.Background(), 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	entities, err := f.storages.Entities.GetAll(context.Background(), models.EntityItems)
	require.NoError(t, err)
	assert.Len(t, entities, 1, "no snapshot refresh while offline")
}

func TestClientSyncJob_StopIsIdempotent(t *testing.T) {
	_, job := newSyncJobFixture(t)

	job.Start(context.Background(), 20*time.Millisecond)
	job.Stop()
	job.Stop()
}

func TestClientSyncJob_RestartReplacesRunningJob(t *testing.T) {
	f, job := newSyncJobFixture(t)

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 20*time.Millisecond)

	enqueueOps(t, f, 1)
	require.Eventually(t, func() bool { return queueLen(t, f) == 0 }, time.Second, 10*time.Millisecond)
}
