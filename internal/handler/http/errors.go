// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while parsing the "Authorization" HTTP header in
// the auth middleware. Callers match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader: the request carries no "Authorization"
	// header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader: the header is present but cannot be
	// split into a scheme and a token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken: the scheme prefix is there but the token value is an
	// empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
