package adapter

import "errors"

var (
	// ErrNetwork marks failures caused by the transport rather than by the
	// server's decision: refused connections, timeouts, gateway errors.
	ErrNetwork = errors.New("network unavailable")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)
