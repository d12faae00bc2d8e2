package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// deadLetterRepository is the SQLite-backed implementation of
// [DeadLetterRepository].
type deadLetterRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewDeadLetterRepository constructs a [DeadLetterRepository] backed by the
// client's local database.
func NewDeadLetterRepository(db *DB, logger *logger.Logger) DeadLetterRepository {
	return &deadLetterRepository{
		db:     db,
		logger: logger,
	}
}

func (d *deadLetterRepository) Save(ctx context.Context, rec models.DeadLetterRecord) error {
	log := logger.FromContext(ctx)

	_, err := d.db.ExecContext(ctx, saveDeadLetter,
		rec.ID, rec.OperationID, string(rec.Name), []byte(rec.Payload),
		rec.EnqueuedAt, rec.LastError, rec.FailedAt)
	if err != nil {
		log.Err(err).
			Str("func", "*deadLetterRepository.Save").
			Str("id", rec.ID).
			Str("op_id", rec.OperationID).
			Msg("failed to save dead letter record")
		return fmt.Errorf("failed to save dead letter record (id=%s): %w", rec.ID, err)
	}

	return nil
}

func (d *deadLetterRepository) List(ctx context.Context) ([]models.DeadLetterRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := d.db.QueryContext(ctx, listDeadLetters)
	if err != nil {
		log.Err(err).
			Str("func", "*deadLetterRepository.List").
			Msg("failed to query dead letter records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.DeadLetterRecord
	for rows.Next() {
		rec, scanErr := scanDeadLetter(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (d *deadLetterRepository) GetByID(ctx context.Context, id string) (models.DeadLetterRecord, error) {
	row := d.db.QueryRowContext(ctx, getDeadLetter, id)

	rec, err := scanDeadLetter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeadLetterRecord{}, ErrDeadLetterNotFound
		}
		return models.DeadLetterRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return rec, nil
}

func (d *deadLetterRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := d.db.ExecContext(ctx, deleteDeadLetter, id); err != nil {
		log.Err(err).
			Str("func", "*deadLetterRepository.Delete").
			Str("id", id).
			Msg("failed to delete dead letter record")
		return fmt.Errorf("failed to delete dead letter record (id=%s): %w", id, err)
	}

	return nil
}

func scanDeadLetter(scan func(dest ...any) error) (models.DeadLetterRecord, error) {
	var (
		rec     models.DeadLetterRecord
		name    string
		payload []byte
	)

	err := scan(&rec.ID, &rec.OperationID, &name, &payload,
		&rec.EnqueuedAt, &rec.LastError, &rec.FailedAt)
	if err != nil {
		return models.DeadLetterRecord{}, err
	}

	rec.Name = models.OperationName(name)
	rec.Payload = payload
	return rec, nil
}
