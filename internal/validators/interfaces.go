// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for records travelling
// through the reconciliation pipeline.
//
// The central abstraction is [Validator]: a generic interface that validates
// arbitrary values with optional field-level scoping, so callers can check
// only the fields that matter on their path (the reconcile endpoint, for
// example, cares about the record ID and the conflict clock but not the
// title).
//
// Validators are constructed inside the services that use them; keeping the
// rules here decouples them from transport and storage concerns and keeps
// them independently testable.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
