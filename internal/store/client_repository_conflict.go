package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// conflictRepository is the SQLite-backed implementation of
// [ConflictRepository].
type conflictRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewConflictRepository constructs a [ConflictRepository] backed by the
// client's local database.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	return &conflictRepository{
		db:     db,
		logger: logger,
	}
}

func (c *conflictRepository) Save(ctx context.Context, rec models.ConflictRecord) error {
	log := logger.FromContext(ctx)

	_, err := c.db.ExecContext(ctx, saveConflict,
		rec.ID, string(rec.EntityType), rec.EntityID, rec.EntityTitle,
		rec.LocalTitle, rec.LocalContent, rec.ServerTitle, rec.ServerContent,
		rec.LocalUpdatedAt, rec.ServerUpdatedAt, rec.CreatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "*conflictRepository.Save").
			Str("id", rec.ID).
			Str("entity_id", rec.EntityID).
			Msg("failed to save conflict record")
		return fmt.Errorf("failed to save conflict record (id=%s): %w", rec.ID, err)
	}

	return nil
}

func (c *conflictRepository) List(ctx context.Context) ([]models.ConflictRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := c.db.QueryContext(ctx, listConflicts)
	if err != nil {
		log.Err(err).
			Str("func", "*conflictRepository.List").
			Msg("failed to query conflict records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.ConflictRecord
	for rows.Next() {
		rec, scanErr := scanConflict(rows.Scan)
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

func (c *conflictRepository) GetByID(ctx context.Context, id string) (models.ConflictRecord, error) {
	row := c.db.QueryRowContext(ctx, getConflict, id)

	rec, err := scanConflict(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConflictRecord{}, ErrConflictNotFound
		}
		return models.ConflictRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return rec, nil
}

func (c *conflictRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := c.db.ExecContext(ctx, deleteConflict, id); err != nil {
		log.Err(err).
			Str("func", "*conflictRepository.Delete").
			Str("id", id).
			Msg("failed to delete conflict record")
		return fmt.Errorf("failed to delete conflict record (id=%s): %w", id, err)
	}

	return nil
}

func scanConflict(scan func(dest ...any) error) (models.ConflictRecord, error) {
	var (
		rec        models.ConflictRecord
		entityType string
	)

	err := scan(
		&rec.ID, &entityType, &rec.EntityID, &rec.EntityTitle,
		&rec.LocalTitle, &rec.LocalContent, &rec.ServerTitle, &rec.ServerContent,
		&rec.LocalUpdatedAt, &rec.ServerUpdatedAt, &rec.CreatedAt,
	)
	if err != nil {
		return models.ConflictRecord{}, err
	}

	rec.EntityType = models.EntityType(entityType)
	return rec, nil
}
