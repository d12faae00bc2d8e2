package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-note-keeper/models"
)

const (
	createUser = `INSERT INTO users (login, password_hash)
    VALUES ($1, $2)
    RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, created_at
    FROM users
    WHERE login = $1;`

	getSyncMarker = `SELECT last_sync_ts
	FROM sync_markers
	WHERE user_id = $1;`

	advanceSyncMarker = `INSERT INTO sync_markers (user_id, last_sync_ts)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO UPDATE SET last_sync_ts = EXCLUDED.last_sync_ts;`
)

// psql builds PostgreSQL-flavoured queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var entityColumns = []string{
	"id", "user_id", "type", "title", "content", "extra",
	"deleted", "created_at", "updated_at",
}

func buildGetEntityByID(entityType models.EntityType, id string, userID int64) (string, []any, error) {
	return psql.
		Select(entityColumns...).
		From("entities").
		Where(sq.Eq{"id": id, "user_id": userID, "type": string(entityType)}).
		ToSql()
}

func buildGetAllEntities(userID int64, filter EntityFilter) (string, []any, error) {
	q := psql.
		Select(entityColumns...).
		From("entities").
		Where(sq.Eq{"user_id": userID})

	if filter.Type != "" {
		q = q.Where(sq.Eq{"type": string(filter.Type)})
	}
	if filter.SinceUpdatedAt > 0 {
		q = q.Where(sq.Gt{"updated_at": filter.SinceUpdatedAt})
	}
	if !filter.IncludeDeleted {
		q = q.Where(sq.Eq{"deleted": false})
	}

	return q.OrderBy("updated_at ASC").ToSql()
}

func buildInsertEntity(e models.Entity, extraJSON []byte) (string, []any, error) {
	return psql.
		Insert("entities").
		Columns(entityColumns...).
		Values(e.ID, e.UserID, string(e.Type), e.Title, e.Content, extraJSON,
			e.Deleted, e.CreatedAt, e.UpdatedAt).
		ToSql()
}

func buildUpdateEntity(e models.Entity, extraJSON []byte) (string, []any, error) {
	return psql.
		Update("entities").
		Set("title", e.Title).
		Set("content", e.Content).
		Set("extra", extraJSON).
		Set("deleted", e.Deleted).
		Set("updated_at", e.UpdatedAt).
		Where(sq.Eq{"id": e.ID, "user_id": e.UserID}).
		ToSql()
}

func buildGetTags(userID int64) (string, []any, error) {
	return psql.
		Select("id", "user_id", "name", "color").
		From("tags").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name ASC").
		ToSql()
}

func buildGetCategories(userID int64) (string, []any, error) {
	return psql.
		Select("id", "user_id", "name").
		From("categories").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name ASC").
		ToSql()
}
