package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// localEntityRepository is the SQLite-backed implementation of
// [LocalEntityRepository]. The local cache is single-user, so rows carry no
// user_id column.
type localEntityRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewLocalEntityRepository constructs a [LocalEntityRepository] backed by
// the client's local database.
func NewLocalEntityRepository(db *DB, logger *logger.Logger) LocalEntityRepository {
	return &localEntityRepository{
		db:     db,
		logger: logger,
	}
}

func (l *localEntityRepository) Upsert(ctx context.Context, entity models.Entity) error {
	log := logger.FromContext(ctx)

	extraJSON, err := json.Marshal(entity.Extra)
	if err != nil {
		return fmt.Errorf("encode extra fields: %w", err)
	}

	_, err = l.db.ExecContext(ctx, upsertLocalEntity,
		entity.ID, string(entity.Type), entity.Title, entity.Content,
		extraJSON, entity.Deleted, entity.CreatedAt, entity.UpdatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "*localEntityRepository.Upsert").
			Str("id", entity.ID).
			Msg("failed to upsert entity")
		return fmt.Errorf("failed to upsert entity (id=%s): %w", entity.ID, err)
	}

	return nil
}

func (l *localEntityRepository) Get(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error) {
	row := l.db.QueryRowContext(ctx, getLocalEntity, string(entityType), id)

	entity, err := scanLocalEntity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Entity{}, ErrEntityNotFound
		}
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entity, nil
}

func (l *localEntityRepository) GetAll(ctx context.Context, entityType models.EntityType) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	rows, err := l.db.QueryContext(ctx, getAllLocalEntities, string(entityType))
	if err != nil {
		log.Err(err).
			Str("func", "*localEntityRepository.GetAll").
			Str("type", string(entityType)).
			Msg("failed to query entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		entity, scanErr := scanLocalEntity(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		entities = append(entities, entity)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entities, nil
}

// ReplaceAll wipes the cache tables and refills them from snapshot inside a
// single transaction, so readers never observe a half-replaced cache.
func (l *localEntityRepository) ReplaceAll(ctx context.Context, snapshot models.SnapshotResponse) error {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"entities", "tags", "categories"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	all := make([]models.Entity, 0, len(snapshot.Items)+len(snapshot.Tasks)+len(snapshot.Journal))
	all = append(all, snapshot.Items...)
	all = append(all, snapshot.Tasks...)
	all = append(all, snapshot.Journal...)

	for _, entity := range all {
		extraJSON, marshalErr := json.Marshal(entity.Extra)
		if marshalErr != nil {
			return fmt.Errorf("encode extra fields: %w", marshalErr)
		}

		_, err = tx.ExecContext(ctx, upsertLocalEntity,
			entity.ID, string(entity.Type), entity.Title, entity.Content,
			extraJSON, entity.Deleted, entity.CreatedAt, entity.UpdatedAt)
		if err != nil {
			log.Err(err).
				Str("func", "*localEntityRepository.ReplaceAll").
				Str("id", entity.ID).
				Msg("failed to insert snapshot entity")
			return fmt.Errorf("failed to insert snapshot entity (id=%s): %w", entity.ID, err)
		}
	}

	for _, tag := range snapshot.Tags {
		if _, err = tx.ExecContext(ctx, upsertLocalTag, tag.ID, tag.Name, tag.Color); err != nil {
			return fmt.Errorf("failed to insert snapshot tag (id=%s): %w", tag.ID, err)
		}
	}
	for _, category := range snapshot.Categories {
		if _, err = tx.ExecContext(ctx, upsertLocalCategory, category.ID, category.Name); err != nil {
			return fmt.Errorf("failed to insert snapshot category (id=%s): %w", category.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func scanLocalEntity(scan func(dest ...any) error) (models.Entity, error) {
	var (
		entity   models.Entity
		typeStr  string
		extraRaw []byte
	)

	err := scan(&entity.ID, &typeStr, &entity.Title, &entity.Content,
		&extraRaw, &entity.Deleted, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return models.Entity{}, err
	}

	entity.Type = models.EntityType(typeStr)
	if len(extraRaw) > 0 {
		if err = json.Unmarshal(extraRaw, &entity.Extra); err != nil {
			return models.Entity{}, fmt.Errorf("decode extra fields: %w", err)
		}
	}

	return entity, nil
}
