package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

func newEntityFixture(t *testing.T) (*coordinatorFixture, ClientEntityService) {
	t.Helper()

	f := newCoordinatorFixture(t)
	svc := NewClientEntityService(f.storages.Entities, f.coordinator, logger.Nop())
	return f, svc
}

func TestClientEntityService_CreateOnline(t *testing.T) {
	f, svc := newEntityFixture(t)

	done := true
	entity, result, err := svc.Create(context.Background(), models.EntityTasks, "buy milk", "2 liters", models.ExtraFields{Done: &done})
	require.NoError(t, err)

	assert.NotEmpty(t, entity.ID)
	assert.Positive(t, entity.UpdatedAt)
	assert.False(t, result.Queued)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Success)

	cached, err := f.storages.Entities.Get(context.Background(), models.EntityTasks, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", cached.Title)
	require.NotNil(t, cached.Extra.Done)
	assert.True(t, *cached.Extra.Done)

	assert.Equal(t, []string{entity.ID}, f.adapter.reconciledIDs())
}

func TestClientEntityService_CreateOffline(t *testing.T) {
	f, svc := newEntityFixture(t)
	f.monitor.SetOnline(false)

	entity, result, err := svc.Create(context.Background(), models.EntityItems, "offline note", "text", models.ExtraFields{})
	require.NoError(t, err)

	assert.True(t, result.Queued)
	assert.Equal(t, 1, queueLen(t, f), "mutation is queued for later replay")

	// The local write landed before the queueing decision.
	cached, err := f.storages.Entities.Get(context.Background(), models.EntityItems, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline note", cached.Title)
}

func TestClientEntityService_CreateUnknownType(t *testing.T) {
	_, svc := newEntityFixture(t)

	_, _, err := svc.Create(context.Background(), "albums", "x", "y", models.ExtraFields{})
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestClientEntityService_UpdateAdvancesClock(t *testing.T) {
	f, svc := newEntityFixture(t)

	entity, _, err := svc.Create(context.Background(), models.EntityItems, "v1", "c1", models.ExtraFields{})
	require.NoError(t, err)

	entity.Title = "v2"
	_, err = svc.Update(context.Background(), entity)
	require.NoError(t, err)

	cached, err := f.storages.Entities.Get(context.Background(), models.EntityItems, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", cached.Title)
	assert.Greater(t, cached.UpdatedAt, entity.UpdatedAt, "conflict clock must advance on every edit")
}

func TestClientEntityService_DeleteIsSoft(t *testing.T) {
	f, svc := newEntityFixture(t)

	entity, _, err := svc.Create(context.Background(), models.EntityItems, "doomed", "x", models.ExtraFields{})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), models.EntityItems, entity.ID)
	require.NoError(t, err)

	// Gone from listings, but the tombstone is still addressable.
	listed, err := svc.List(context.Background(), models.EntityItems)
	require.NoError(t, err)
	assert.Empty(t, listed)

	cached, err := f.storages.Entities.Get(context.Background(), models.EntityItems, entity.ID)
	require.NoError(t, err)
	assert.True(t, cached.Deleted)
	assert.Greater(t, cached.UpdatedAt, entity.UpdatedAt)
}

func TestClientEntityService_DeleteUnknownEntity(t *testing.T) {
	_, svc := newEntityFixture(t)

	_, err := svc.Delete(context.Background(), models.EntityItems, "ghost")
	assert.Error(t, err)
}
