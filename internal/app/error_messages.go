// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// note-keeper server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when the request body is not syntactically
	// valid JSON.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidDataProvided is returned when the request body decodes but
	// fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgLoginAlreadyExists is returned when a registration attempt is
	// rejected because the requested login is already in use.
	MsgLoginAlreadyExists = "login already exists"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler requires a user ID
	// extracted from the JWT claim but none is present in the request
	// context.
	MsgNoUserIDProvided = "no user ID was given"

	// MsgReconcileFailed is returned when the batch reconciliation endpoint
	// encounters an error arbitrating the submitted operations.
	MsgReconcileFailed = "error reconciling batch"

	// MsgSnapshotFailed is returned when the full-state snapshot cannot be
	// assembled for the current user.
	MsgSnapshotFailed = "error assembling snapshot"

	// MsgSyncMarkerFailed is returned when the last-sync marker cannot be
	// read for the current user.
	MsgSyncMarkerFailed = "error reading sync marker"

	// MsgEntityFetchFailed is returned when a single-record read fails,
	// including the not-found case.
	MsgEntityFetchFailed = "error fetching entity"
)
