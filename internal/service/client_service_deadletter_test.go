package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

func newDeadLetterFixture(t *testing.T) (*coordinatorFixture, DeadLetterService) {
	t.Helper()

	f := newCoordinatorFixture(t)
	svc := NewDeadLetterService(f.storages.DeadLetters, f.storages.Queue, logger.Nop())
	return f, svc
}

func seedDeadLetter(t *testing.T, f *coordinatorFixture) models.DeadLetterRecord {
	t.Helper()

	op := testOp(t, "op-1", "n-1", 100)
	rec := models.DeadLetterRecord{
		ID:          "dl-1",
		OperationID: op.ID,
		Name:        op.Name,
		Payload:     op.Payload,
		EnqueuedAt:  op.EnqueuedAt,
		LastError:   "storage_error",
		FailedAt:    time.Now(),
	}
	require.NoError(t, f.storages.DeadLetters.Save(context.Background(), rec))
	return rec
}

func TestDeadLetterService_RequeueResetsAttempts(t *testing.T) {
	f, svc := newDeadLetterFixture(t)
	rec := seedDeadLetter(t, f)

	require.NoError(t, svc.Requeue(context.Background(), rec.ID))

	op, err := f.storages.Queue.PeekFront(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	assert.Equal(t, models.OpItemsUpdate, op.Name)
	assert.Zero(t, op.AttemptCount, "requeue grants a fresh replay budget")

	entity, err := op.DecodeEntity()
	require.NoError(t, err)
	assert.Equal(t, "n-1", entity.ID)

	_, err = f.storages.DeadLetters.GetByID(context.Background(), rec.ID)
	assert.ErrorIs(t, err, store.ErrDeadLetterNotFound)
}

func TestDeadLetterService_RequeueUnknownID(t *testing.T) {
	_, svc := newDeadLetterFixture(t)

	err := svc.Requeue(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrDeadLetterNotFound)
}

func TestDeadLetterService_Discard(t *testing.T) {
	f, svc := newDeadLetterFixture(t)
	rec := seedDeadLetter(t, f)

	require.NoError(t, svc.Discard(context.Background(), rec.ID))

	letters, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, letters)
	assert.Equal(t, 0, queueLen(t, f), "discard does not resurrect the operation")
}

func TestDeadLetterService_List(t *testing.T) {
	f, svc := newDeadLetterFixture(t)
	seedDeadLetter(t, f)

	letters, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "op-1", letters[0].OperationID)
	assert.Equal(t, "storage_error", letters[0].LastError)
}
