// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClientDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.db")
	db, err := NewConnectSQLite(context.Background(), config.ClientDB{Path: path}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func mustOperation(t *testing.T, id string, name models.OperationName, entityID string) models.QueuedOperation {
	t.Helper()
	op, err := models.NewOperation(id, name, models.Entity{
		ID:        entityID,
		Type:      name.EntityType(),
		Title:     "title " + entityID,
		UpdatedAt: 1700000000000,
	})
	require.NoError(t, err)
	return op
}

func TestQueue_FIFOOrder(t *testing.T) {
	db, _ := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())
	ctx := context.Background()

	first := mustOperation(t, "op-1", models.OpItemsCreate, "n-1")
	second := mustOperation(t, "op-2", models.OpTasksUpdate, "t-1")
	third := mustOperation(t, "op-3", models.OpJournalDelete, "j-1")

	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))
	require.NoError(t, q.Enqueue(ctx, third))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, wantID := range []string{"op-1", "op-2", "op-3"} {
		op, dequeueErr := q.DequeueFront(ctx)
		require.NoError(t, dequeueErr)
		assert.Equal(t, wantID, op.ID)
	}

	_, err = q.DequeueFront(ctx)
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueue_PeekDoesNotConsume(t *testing.T) {
	db, _ := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, mustOperation(t, "op-1", models.OpItemsCreate, "n-1")))

	peeked, err := q.PeekFront(ctx)
	require.NoError(t, err)
	assert.Equal(t, "op-1", peeked.ID)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	db, path := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, mustOperation(t, "op-1", models.OpItemsCreate, "n-1")))
	require.NoError(t, q.Enqueue(ctx, mustOperation(t, "op-2", models.OpItemsUpdate, "n-1")))
	require.NoError(t, db.Close())

	reopened, err := NewConnectSQLite(ctx, config.ClientDB{Path: path}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	q2 := NewQueueRepository(reopened, logger.Nop())
	ops, err := q2.All(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, "op-2", ops[1].ID)
}

func TestQueue_RequeuePreservesAttemptCountAndMovesToBack(t *testing.T) {
	db, _ := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, mustOperation(t, "op-1", models.OpItemsCreate, "n-1")))
	require.NoError(t, q.Enqueue(ctx, mustOperation(t, "op-2", models.OpItemsUpdate, "n-1")))

	require.NoError(t, q.IncrementAttempt(ctx, "op-1"))

	// The head is requeued without being dequeued first: the move is a
	// single transaction, so the operation is never absent from the queue.
	front, err := q.PeekFront(ctx)
	require.NoError(t, err)
	assert.Equal(t, "op-1", front.ID)
	assert.Equal(t, 1, front.AttemptCount)

	require.NoError(t, q.RequeueToBack(ctx, front))

	ops, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "op-2", ops[0].ID)
	assert.Equal(t, "op-1", ops[1].ID)
	assert.Equal(t, 1, ops[1].AttemptCount)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestQueue_IncrementAttempt_UnknownOp(t *testing.T) {
	db, _ := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())

	err := q.IncrementAttempt(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueue_PayloadRoundTrip(t *testing.T) {
	db, _ := newTestClientDB(t)
	q := NewQueueRepository(db, logger.Nop())
	ctx := context.Background()

	op := mustOperation(t, "op-1", models.OpJournalDelete, "j-1")
	require.NoError(t, q.Enqueue(ctx, op))

	got, err := q.DequeueFront(ctx)
	require.NoError(t, err)

	entity, err := got.DecodeEntity()
	require.NoError(t, err)
	assert.Equal(t, "j-1", entity.ID)
	assert.Equal(t, models.EntityJournal, entity.Type)
	assert.True(t, entity.Deleted, "delete payloads always carry the deleted flag")
}
