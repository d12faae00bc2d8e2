package models

import "time"

// EntityType discriminates the three user-data collections that take part in
// synchronization. The values double as the JSON group names of the batch
// reconciliation wire contract and as URL path segments of the single-entity
// fetch endpoint.
type EntityType string

const (
	EntityItems   EntityType = "items"
	EntityTasks   EntityType = "tasks"
	EntityJournal EntityType = "journal"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityItems, EntityTasks, EntityJournal:
		return true
	}
	return false
}

// Entity is the persistence and wire model for a single note, task, or
// journal entry. One structure serves all three collections; Type
// discriminates, and type-specific attributes live in Extra.
//
// UpdatedAt is the conflict-arbitration clock: the server never accepts a
// write whose UpdatedAt is less than or equal to the currently stored value
// for the same ID. It is a unix-millisecond integer so that comparisons are
// exact and free of timezone or precision ambiguity.
type Entity struct {
	// ID is the client-generated UUID of the record. It is stable across
	// devices and is the identity used for conflict arbitration.
	ID string `json:"id"`

	// UserID is the owner of the record. Never trusted from the wire on the
	// server side; it is always overwritten from the authenticated token.
	UserID int64 `json:"-"`

	// Type discriminates the collection this record belongs to.
	Type EntityType `json:"type"`

	Title   string `json:"title"`
	Content string `json:"content"`

	// Extra holds collection-specific attributes. Stored as an opaque JSON
	// column; the server never inspects it.
	Extra ExtraFields `json:"extra,omitempty"`

	// Deleted marks a soft-deleted record. Deletes travel through the same
	// reconciliation path as updates so that last-write-wins arbitration
	// applies to them too.
	Deleted bool `json:"deleted"`

	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the unix-millisecond conflict clock.
	UpdatedAt int64 `json:"updated_at"`
}

// ExtraFields carries the optional, collection-specific attributes of an
// [Entity]. All fields are pointers so that absent attributes are omitted
// from JSON and never overwrite stored values with zero values.
type ExtraFields struct {
	// Done and DueAt apply to tasks.
	Done  *bool      `json:"done,omitempty"`
	DueAt *time.Time `json:"due_at,omitempty"`

	// EntryDate and Mood apply to journal entries.
	EntryDate *string `json:"entry_date,omitempty"`
	Mood      *string `json:"mood,omitempty"`

	// Tags and CategoryID apply to notes.
	Tags       []string `json:"tags,omitempty"`
	CategoryID *string  `json:"category_id,omitempty"`
}

// Tag is a server-maintained label definition. Tags are distributed to
// clients via snapshot pull only and do not participate in the mutation
// queue.
type Tag struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Category is a server-maintained grouping definition, distributed via
// snapshot pull only.
type Category struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}
