package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrUnknownEntityType     = errors.New("unknown entity type")
	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	// Client-side sentinels.

	// ErrRecordRejected marks a reconcile outcome the server refused for a
	// reason other than arbitration ("invalid_record", "storage_error").
	ErrRecordRejected = errors.New("record rejected by server")

	// ErrCoordinatorClosed is returned by coordinator operations after Close.
	ErrCoordinatorClosed = errors.New("sync coordinator is closed")

	// ErrInvalidResolution is returned when a conflict resolution choice is
	// not one of keep_local, keep_server, merge.
	ErrInvalidResolution = errors.New("invalid conflict resolution choice")

	ErrServerUnavailable = errors.New("server is unavailable")
)
