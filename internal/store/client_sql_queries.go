// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const clientSchema = `
	CREATE TABLE IF NOT EXISTS queue (
		position      INTEGER PRIMARY KEY AUTOINCREMENT,
		op_id         TEXT      NOT NULL UNIQUE,
		name          TEXT      NOT NULL,
		payload       BLOB      NOT NULL,
		enqueued_at   TIMESTAMP NOT NULL,
		attempt_count INTEGER   NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS conflicts (
		id                TEXT PRIMARY KEY,
		entity_type       TEXT      NOT NULL,
		entity_id         TEXT      NOT NULL,
		entity_title      TEXT      NOT NULL,
		local_title       TEXT      NOT NULL,
		local_content     TEXT      NOT NULL,
		server_title      TEXT      NOT NULL,
		server_content    TEXT      NOT NULL,
		local_updated_at  INTEGER   NOT NULL,
		server_updated_at INTEGER   NOT NULL,
		created_at        TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dead_letters (
		id          TEXT PRIMARY KEY,
		op_id       TEXT      NOT NULL,
		name        TEXT      NOT NULL,
		payload     BLOB      NOT NULL,
		enqueued_at TIMESTAMP NOT NULL,
		last_error  TEXT      NOT NULL,
		failed_at   TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entities (
		id         TEXT PRIMARY KEY,
		type       TEXT      NOT NULL,
		title      TEXT      NOT NULL,
		content    TEXT      NOT NULL,
		extra      BLOB,
		deleted    BOOLEAN   NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at INTEGER   NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tags (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		color TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

const (
	enqueueOperation = `
		INSERT INTO queue (op_id, name, payload, enqueued_at, attempt_count)
		VALUES ($1, $2, $3, $4, $5);`

	peekFrontOperation = `
		SELECT op_id, name, payload, enqueued_at, attempt_count
		FROM queue
		ORDER BY position ASC
		LIMIT 1;`

	deleteOperation = `
		DELETE FROM queue
		WHERE op_id = $1;`

	incrementAttempt = `
		UPDATE queue
		SET attempt_count = attempt_count + 1
		WHERE op_id = $1;`

	queueLength = `
		SELECT COUNT(*) FROM queue;`

	allOperations = `
		SELECT op_id, name, payload, enqueued_at, attempt_count
		FROM queue
		ORDER BY position ASC;`

	saveConflict = `
		INSERT OR REPLACE INTO conflicts (
			id, entity_type, entity_id, entity_title,
			local_title, local_content, server_title, server_content,
			local_updated_at, server_updated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	listConflicts = `
		SELECT
			id, entity_type, entity_id, entity_title,
			local_title, local_content, server_title, server_content,
			local_updated_at, server_updated_at, created_at
		FROM conflicts
		ORDER BY created_at ASC;`

	getConflict = `
		SELECT
			id, entity_type, entity_id, entity_title,
			local_title, local_content, server_title, server_content,
			local_updated_at, server_updated_at, created_at
		FROM conflicts
		WHERE id = $1;`

	deleteConflict = `
		DELETE FROM conflicts
		WHERE id = $1;`

	saveDeadLetter = `
		INSERT OR REPLACE INTO dead_letters (
			id, op_id, name, payload, enqueued_at, last_error, failed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	listDeadLetters = `
		SELECT id, op_id, name, payload, enqueued_at, last_error, failed_at
		FROM dead_letters
		ORDER BY failed_at ASC;`

	getDeadLetter = `
		SELECT id, op_id, name, payload, enqueued_at, last_error, failed_at
		FROM dead_letters
		WHERE id = $1;`

	deleteDeadLetter = `
		DELETE FROM dead_letters
		WHERE id = $1;`

	upsertLocalEntity = `
		INSERT INTO entities (id, type, title, content, extra, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			type       = excluded.type,
			title      = excluded.title,
			content    = excluded.content,
			extra      = excluded.extra,
			deleted    = excluded.deleted,
			updated_at = excluded.updated_at;`

	getLocalEntity = `
		SELECT id, type, title, content, extra, deleted, created_at, updated_at
		FROM entities
		WHERE type = $1 AND id = $2;`

	getAllLocalEntities = `
		SELECT id, type, title, content, extra, deleted, created_at, updated_at
		FROM entities
		WHERE type = $1 AND deleted = FALSE
		ORDER BY updated_at DESC;`

	upsertLocalTag = `
		INSERT OR REPLACE INTO tags (id, name, color) VALUES ($1, $2, $3);`

	upsertLocalCategory = `
		INSERT OR REPLACE INTO categories (id, name) VALUES ($1, $2);`

	getKV = `
		SELECT value FROM kv WHERE key = $1;`

	setKV = `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)
