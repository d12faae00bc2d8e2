// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the go-note-keeper server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// service layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling. Failures caused by the network itself rather than by the server
// (connection refused, timeouts, gateway errors) are recognisable via
// [IsNetworkError] and drive the offline path in the sync coordinator.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// go-note-keeper server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to the
// sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. It should be called immediately after a
	// successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register sends a registration request to the server with the provided
	// user credentials. On success it stores the returned bearer token via
	// SetToken and returns the user value. Returns an error if the request
	// fails or the server responds with a non-2xx status.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user with the server. On success it stores the
	// returned bearer token via SetToken. Returns an error if the request
	// fails or the server responds with a non-2xx status.
	Login(ctx context.Context, user models.User) (models.User, error)

	// Reconcile pushes a batch of mutated records to the server and returns
	// the per-record outcomes together with the server clock at batch
	// completion. A rejected record is reported inside the response, not as
	// an error; an error is returned only when the batch itself could not be
	// delivered or decoded. Requires a valid bearer token.
	Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResponse, error)

	// PullSnapshot fetches the complete server-side dataset of the
	// authenticated user: all three collections plus tags and categories.
	// Requires a valid bearer token.
	PullSnapshot(ctx context.Context) (models.SnapshotResponse, error)

	// FetchEntity retrieves a single record by collection and ID. Returns
	// [ErrNotFound] (wrapped) when no such record exists. Requires a valid
	// bearer token.
	FetchEntity(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error)

	// Ping probes server reachability without authentication. A nil return
	// means the server answered; any other return is classifiable with
	// [IsNetworkError].
	Ping(ctx context.Context) error
}
