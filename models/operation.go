// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// OperationName identifies one kind of remote mutation. The value is a
// "<collection>.<action>" pair, e.g. "items.create". Only the listed
// constants are valid; payloads are checked against the name at construction
// time so that a malformed operation can never reach the queue.
type OperationName string

const (
	OpItemsCreate OperationName = "items.create"
	OpItemsUpdate OperationName = "items.update"
	OpItemsDelete OperationName = "items.delete"

	OpTasksCreate OperationName = "tasks.create"
	OpTasksUpdate OperationName = "tasks.update"
	OpTasksDelete OperationName = "tasks.delete"

	OpJournalCreate OperationName = "journal.create"
	OpJournalUpdate OperationName = "journal.update"
	OpJournalDelete OperationName = "journal.delete"
)

var (
	ErrUnknownOperation = errors.New("unknown operation name")
	ErrInvalidPayload   = errors.New("invalid operation payload")
)

// EntityType returns the collection an operation targets, derived from the
// name prefix. Returns an empty EntityType for malformed names.
func (n OperationName) EntityType() EntityType {
	prefix, _, ok := strings.Cut(string(n), ".")
	if !ok {
		return ""
	}

	t := EntityType(prefix)
	if !t.Valid() {
		return ""
	}
	return t
}

// IsDelete reports whether the operation is a soft delete.
func (n OperationName) IsDelete() bool {
	return strings.HasSuffix(string(n), ".delete")
}

// Valid reports whether n is one of the declared operation names.
func (n OperationName) Valid() bool {
	switch n {
	case OpItemsCreate, OpItemsUpdate, OpItemsDelete,
		OpTasksCreate, OpTasksUpdate, OpTasksDelete,
		OpJournalCreate, OpJournalUpdate, OpJournalDelete:
		return true
	}
	return false
}

// QueuedOperation is one pending remote mutation. The queue stores
// operations in strict insertion order; only AttemptCount mutates in place
// once a record has been enqueued.
type QueuedOperation struct {
	// ID is a unique identifier of the queue entry itself (not the entity).
	ID string `json:"id"`

	// Name selects the remote operation kind.
	Name OperationName `json:"name"`

	// Payload is the JSON-encoded [Entity] snapshot the operation carries.
	// It is validated and produced by [NewOperation] and decoded back with
	// [QueuedOperation.DecodeEntity].
	Payload json.RawMessage `json:"payload"`

	EnqueuedAt time.Time `json:"enqueued_at"`

	// AttemptCount is the number of failed replay attempts so far.
	AttemptCount int `json:"attempt_count"`
}

// NewOperation builds a validated [QueuedOperation] carrying the given
// entity snapshot.
//
// Validation performed here, rather than at replay time:
//   - name must be a declared [OperationName];
//   - entity.ID must be set;
//   - entity.Type must match the collection in name;
//   - entity.UpdatedAt must be a positive unix-millisecond timestamp.
//
// For delete operations the entity's Deleted flag is forced on, so a caller
// cannot enqueue a delete whose payload resurrects the record.
func NewOperation(id string, name OperationName, entity Entity) (QueuedOperation, error) {
	if !name.Valid() {
		return QueuedOperation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if entity.ID == "" {
		return QueuedOperation{}, fmt.Errorf("%w: empty entity id", ErrInvalidPayload)
	}
	if entity.Type != name.EntityType() {
		return QueuedOperation{}, fmt.Errorf("%w: entity type %q does not match operation %q",
			ErrInvalidPayload, entity.Type, name)
	}
	if entity.UpdatedAt <= 0 {
		return QueuedOperation{}, fmt.Errorf("%w: missing updated_at clock", ErrInvalidPayload)
	}

	if name.IsDelete() {
		entity.Deleted = true
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return QueuedOperation{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return QueuedOperation{
		ID:         id,
		Name:       name,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}, nil
}

// DecodeEntity unmarshals the operation payload back into an [Entity].
func (op QueuedOperation) DecodeEntity() (Entity, error) {
	var entity Entity
	if err := json.Unmarshal(op.Payload, &entity); err != nil {
		return Entity{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return entity, nil
}

// MutationResult is the outcome of RunOrQueueMutation.
//
// When Queued is true the operation was deferred to the mutation queue and
// Results is empty. Otherwise Results carries the per-record reconciliation
// outcomes of the immediate execution.
type MutationResult struct {
	Queued  bool              `json:"queued"`
	Results []ReconcileResult `json:"results,omitempty"`
}
