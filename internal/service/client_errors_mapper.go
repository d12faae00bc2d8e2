// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/app"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service
// business error.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case adapter.IsNetworkError(err):
		return ErrServerUnavailable

	case errors.Is(err, adapter.ErrBadRequest):
		return ErrInvalidDataProvided

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpiredOrInvalid:
			return ErrTokenIsExpiredOrInvalid
		}
		return ErrWrongPassword

	case errors.Is(err, adapter.ErrNotFound):
		return store.ErrEntityNotFound

	case errors.Is(err, adapter.ErrConflict):
		return store.ErrLoginAlreadyExists
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
