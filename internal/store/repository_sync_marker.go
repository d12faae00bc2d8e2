package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

// syncMarkerRepository is the PostgreSQL-backed implementation of
// [SyncMarkerRepository].
type syncMarkerRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSyncMarkerRepository constructs a [SyncMarkerRepository] backed by the
// provided database connection and logger.
func NewSyncMarkerRepository(db *DB, logger *logger.Logger) SyncMarkerRepository {
	logger.Debug().Msg("creating sync marker repository")
	return &syncMarkerRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the user's last sync marker, or zero when the user has never
// completed a reconciliation batch.
func (r *syncMarkerRepository) Get(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	var ts int64
	row := r.db.QueryRowContext(ctx, getSyncMarker, userID)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		log.Err(err).
			Str("func", "*syncMarkerRepository.Get").
			Int64("user_id", userID).
			Msg("failed to scan sync marker")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return ts, nil
}

// Advance upserts ts as the user's marker.
func (r *syncMarkerRepository) Advance(ctx context.Context, userID int64, ts int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, advanceSyncMarker, userID, ts); err != nil {
		log.Err(err).
			Str("func", "*syncMarkerRepository.Advance").
			Int64("user_id", userID).
			Int64("ts", ts).
			Msg("failed to advance sync marker")
		return fmt.Errorf("failed to advance sync marker (user_id=%d): %w", userID, err)
	}

	return nil
}
