package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID        = errors.New("invalid record ID")
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrInvalidType      = errors.New("invalid entity type")
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidUpdatedAt = errors.New("invalid conflict clock")
	ErrEmptyBatch       = errors.New("reconcile batch cannot be empty")
)
