package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 string, falling back to a random
// UUIDv4 if the monotonic source fails. Time-ordered IDs keep queue entries
// and entities roughly insertion-sorted in their indexes.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
