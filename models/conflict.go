// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConflictRecord captures one local write that the server rejected as stale
// ("server_newer"), paired with the server's authoritative copy at the time
// of rejection. A record exists only while the conflict awaits explicit user
// resolution; every resolution path removes it.
type ConflictRecord struct {
	// ID is the unique identifier of the ledger entry.
	ID string `json:"id"`

	// EntityType and EntityID identify the contested record.
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`

	// EntityTitle is the display title shown in the resolution UI, taken
	// from whichever side has a non-empty title.
	EntityTitle string `json:"entity_title"`

	LocalTitle   string `json:"local_title"`
	LocalContent string `json:"local_content"`

	ServerTitle   string `json:"server_title"`
	ServerContent string `json:"server_content"`

	// LocalUpdatedAt and ServerUpdatedAt are the unix-millisecond clocks of
	// the two sides at rejection time. ServerUpdatedAt >= LocalUpdatedAt by
	// construction.
	LocalUpdatedAt  int64 `json:"local_updated_at"`
	ServerUpdatedAt int64 `json:"server_updated_at"`

	CreatedAt time.Time `json:"created_at"`
}

// Resolution selects how a [ConflictRecord] is settled. Every choice
// terminates the ledger entry in exactly one authoritative write or a no-op
// removal.
type Resolution string

const (
	// ResolutionKeepLocal re-pushes the local content with a fresh, greatest
	// UpdatedAt so it wins arbitration.
	ResolutionKeepLocal Resolution = "keep_local"

	// ResolutionKeepServer discards the local edit and adopts the server
	// copy; no remote write is issued.
	ResolutionKeepServer Resolution = "keep_server"

	// ResolutionMerge saves user-edited text as a new authoritative write.
	ResolutionMerge Resolution = "merge"
)

// Valid reports whether r is one of the declared resolution choices.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionKeepLocal, ResolutionKeepServer, ResolutionMerge:
		return true
	}
	return false
}

// MergePatch carries the user-edited title and content of a manual merge
// resolution.
type MergePatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
