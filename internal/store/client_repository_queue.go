package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// queueRepository is the SQLite-backed implementation of [QueueRepository].
//
// FIFO order is maintained by an AUTOINCREMENT position column: rows are
// always read in position order, and a requeued operation receives a fresh
// position, which places it at the back. AUTOINCREMENT guarantees positions
// are never reused, so order survives process restarts.
type queueRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewQueueRepository constructs a [QueueRepository] backed by the client's
// local database.
func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		db:     db,
		logger: logger,
	}
}

// Enqueue appends op to the back of the queue.
func (q *queueRepository) Enqueue(ctx context.Context, op models.QueuedOperation) error {
	log := logger.FromContext(ctx)

	_, err := q.db.ExecContext(ctx, enqueueOperation,
		op.ID, string(op.Name), []byte(op.Payload), op.EnqueuedAt, op.AttemptCount)
	if err != nil {
		log.Err(err).
			Str("func", "*queueRepository.Enqueue").
			Str("op_id", op.ID).
			Str("name", string(op.Name)).
			Msg("failed to enqueue operation")
		return fmt.Errorf("failed to enqueue operation (op_id=%s): %w", op.ID, err)
	}

	return nil
}

// PeekFront returns the front operation without consuming it.
func (q *queueRepository) PeekFront(ctx context.Context) (models.QueuedOperation, error) {
	row := q.db.QueryRowContext(ctx, peekFrontOperation)

	op, err := scanOperation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QueuedOperation{}, ErrQueueEmpty
		}
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return op, nil
}

// DequeueFront removes and returns the front operation inside a single
// transaction, so a crash between read and delete cannot lose or duplicate
// the entry.
func (q *queueRepository) DequeueFront(ctx context.Context) (models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, peekFrontOperation)
	op, err := scanOperation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QueuedOperation{}, ErrQueueEmpty
		}
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if _, err = tx.ExecContext(ctx, deleteOperation, op.ID); err != nil {
		log.Err(err).
			Str("func", "*queueRepository.DequeueFront").
			Str("op_id", op.ID).
			Msg("failed to delete dequeued operation")
		return models.QueuedOperation{}, fmt.Errorf("failed to delete operation (op_id=%s): %w", op.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return op, nil
}

// RequeueToBack moves op to the back of the queue: its current row is
// deleted and the operation re-inserted with its AttemptCount preserved, in
// one transaction so a crash cannot leave the operation missing or
// duplicated. The fresh AUTOINCREMENT position places it behind every
// currently queued operation.
func (q *queueRepository) RequeueToBack(ctx context.Context, op models.QueuedOperation) error {
	log := logger.FromContext(ctx)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteOperation, op.ID); err != nil {
		log.Err(err).
			Str("func", "*queueRepository.RequeueToBack").
			Str("op_id", op.ID).
			Msg("failed to delete requeued operation")
		return fmt.Errorf("failed to delete operation (op_id=%s): %w", op.ID, err)
	}

	if _, err = tx.ExecContext(ctx, enqueueOperation,
		op.ID, string(op.Name), []byte(op.Payload), op.EnqueuedAt, op.AttemptCount); err != nil {
		log.Err(err).
			Str("func", "*queueRepository.RequeueToBack").
			Str("op_id", op.ID).
			Msg("failed to re-insert requeued operation")
		return fmt.Errorf("failed to requeue operation (op_id=%s): %w", op.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// IncrementAttempt bumps the attempt counter of the queued operation in
// place without touching its position.
func (q *queueRepository) IncrementAttempt(ctx context.Context, opID string) error {
	log := logger.FromContext(ctx)

	result, err := q.db.ExecContext(ctx, incrementAttempt, opID)
	if err != nil {
		log.Err(err).
			Str("func", "*queueRepository.IncrementAttempt").
			Str("op_id", opID).
			Msg("failed to increment attempt count")
		return fmt.Errorf("failed to increment attempt (op_id=%s): %w", opID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (op_id=%s): %w", opID, err)
	}
	if affected == 0 {
		return ErrQueueEmpty
	}

	return nil
}

// Len returns the number of pending operations.
func (q *queueRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, queueLength).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return n, nil
}

// All returns every pending operation in queue order, front first.
func (q *queueRepository) All(ctx context.Context) ([]models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := q.db.QueryContext(ctx, allOperations)
	if err != nil {
		log.Err(err).
			Str("func", "*queueRepository.All").
			Msg("failed to query all queued operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ops []models.QueuedOperation
	for rows.Next() {
		op, scanErr := scanOperation(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		ops = append(ops, op)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ops, nil
}

func scanOperation(scan func(dest ...any) error) (models.QueuedOperation, error) {
	var (
		op      models.QueuedOperation
		name    string
		payload []byte
	)

	if err := scan(&op.ID, &name, &payload, &op.EnqueuedAt, &op.AttemptCount); err != nil {
		return models.QueuedOperation{}, err
	}

	op.Name = models.OperationName(name)
	op.Payload = payload
	return op, nil
}
