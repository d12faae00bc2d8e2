// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client defines the lifecycle contract for runnable client applications.
type Client interface {
	// Run starts the client and blocks until the user exits.
	Run() error
}
