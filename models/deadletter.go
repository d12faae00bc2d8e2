package models

import (
	"encoding/json"
	"time"
)

// DeadLetterRecord is a queued operation that exhausted its replay attempts
// and was moved out of the mutation queue instead of being silently
// discarded. Dead letters are kept durably for user inspection and can be
// requeued (with a reset attempt counter) or discarded.
type DeadLetterRecord struct {
	ID string `json:"id"`

	// Operation fields preserved from the original queue entry.
	OperationID string          `json:"operation_id"`
	Name        OperationName   `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`

	// LastError is the text of the error that caused the final attempt to
	// fail.
	LastError string `json:"last_error"`

	FailedAt time.Time `json:"failed_at"`
}

// Operation reconstructs a replayable [QueuedOperation] from the dead
// letter. AttemptCount starts over at zero.
func (d DeadLetterRecord) Operation() QueuedOperation {
	return QueuedOperation{
		ID:         d.OperationID,
		Name:       d.Name,
		Payload:    d.Payload,
		EnqueuedAt: d.EnqueuedAt,
	}
}
