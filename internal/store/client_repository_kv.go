package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

// Well-known keys of the client runtime KV store.
const (
	KVLastSyncStatus = "last_sync_status"
	KVLastSyncTS     = "last_sync_ts"
)

// kvRepository is the SQLite-backed implementation of [KVRepository].
type kvRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewKVRepository constructs a [KVRepository] backed by the client's local
// database.
func NewKVRepository(db *DB, logger *logger.Logger) KVRepository {
	return &kvRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the stored value, or an empty string when the key is absent.
func (k *kvRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := k.db.QueryRowContext(ctx, getKV, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return value, nil
}

func (k *kvRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	if _, err := k.db.ExecContext(ctx, setKV, key, value); err != nil {
		log.Err(err).
			Str("func", "*kvRepository.Set").
			Str("key", key).
			Msg("failed to set kv value")
		return fmt.Errorf("failed to set kv value (key=%s): %w", key, err)
	}

	return nil
}
