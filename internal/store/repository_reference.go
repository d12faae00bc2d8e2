package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// referenceRepository serves tag and category definitions from PostgreSQL.
type referenceRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewReferenceRepository constructs a [ReferenceRepository] backed by the
// provided database connection and logger.
func NewReferenceRepository(db *DB, logger *logger.Logger) ReferenceRepository {
	logger.Debug().Msg("creating reference repository")
	return &referenceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *referenceRepository) GetTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetTags(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*referenceRepository.GetTags").
			Int64("user_id", userID).
			Msg("failed to execute query for getting tags")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if scanErr := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		tags = append(tags, tag)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tags, nil
}

func (r *referenceRepository) GetCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCategories(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*referenceRepository.GetCategories").
			Int64("user_id", userID).
			Msg("failed to execute query for getting categories")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if scanErr := rows.Scan(&category.ID, &category.UserID, &category.Name); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		categories = append(categories, category)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return categories, nil
}
