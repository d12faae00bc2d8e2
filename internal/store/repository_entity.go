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

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository]. All three collections live in a single "entities" table
// discriminated by the type column; the collection-specific attributes are
// stored as an opaque jsonb column.
type entityRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewEntityRepository constructs an [EntityRepository] backed by the provided
// database connection and logger.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	logger.Debug().Msg("creating entity repository")
	return &entityRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID fetches one record. Soft-deleted records are returned too: the
// reconciliation path needs the stored conflict clock regardless of the
// delete flag.
func (r *entityRepository) GetByID(ctx context.Context, entityType models.EntityType, id string, userID int64) (models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntityByID(entityType, id, userID)
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	entity, err := scanEntity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Entity{}, ErrEntityNotFound
		}
		log.Err(err).
			Str("func", "*entityRepository.GetByID").
			Str("id", id).
			Int64("user_id", userID).
			Msg("failed to scan entity row")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entity, nil
}

// GetAllByUser fetches the user's records narrowed by filter, ordered by the
// conflict clock ascending.
func (r *entityRepository) GetAllByUser(ctx context.Context, userID int64, filter EntityFilter) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetAllEntities(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*entityRepository.GetAllByUser").
			Int64("user_id", userID).
			Msg("failed to execute query for getting entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		entity, scanErr := scanEntity(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*entityRepository.GetAllByUser").
				Int64("user_id", userID).
				Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		entities = append(entities, entity)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*entityRepository.GetAllByUser").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entities, nil
}

// Insert persists a brand-new record.
func (r *entityRepository) Insert(ctx context.Context, entity models.Entity) error {
	log := logger.FromContext(ctx)

	extraJSON, err := json.Marshal(entity.Extra)
	if err != nil {
		return fmt.Errorf("encode extra fields: %w", err)
	}

	query, args, err := buildInsertEntity(entity, extraJSON)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*entityRepository.Insert").
			Str("id", entity.ID).
			Int64("user_id", entity.UserID).
			Msg("failed to insert entity")
		return fmt.Errorf("failed to insert entity (id=%s): %w", entity.ID, err)
	}

	return nil
}

// Update overwrites an existing record, including its soft-delete flag and
// conflict clock. Returns [ErrEntityNotFound] when nothing matched.
func (r *entityRepository) Update(ctx context.Context, entity models.Entity) error {
	log := logger.FromContext(ctx)

	extraJSON, err := json.Marshal(entity.Extra)
	if err != nil {
		return fmt.Errorf("encode extra fields: %w", err)
	}

	query, args, err := buildUpdateEntity(entity, extraJSON)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*entityRepository.Update").
			Str("id", entity.ID).
			Int64("user_id", entity.UserID).
			Msg("failed to update entity")
		return fmt.Errorf("failed to update entity (id=%s): %w", entity.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", entity.ID, err)
	}
	if affected == 0 {
		return ErrEntityNotFound
	}

	return nil
}

// scanEntity reads one entity row regardless of whether it comes from a
// sql.Row or sql.Rows.
func scanEntity(scan func(dest ...any) error) (models.Entity, error) {
	var (
		entity   models.Entity
		typeStr  string
		extraRaw []byte
	)

	err := scan(
		&entity.ID,
		&entity.UserID,
		&typeStr,
		&entity.Title,
		&entity.Content,
		&extraRaw,
		&entity.Deleted,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
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
