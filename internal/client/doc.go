// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI, the local SQLite cache, the offline sync
// coordinator, and the background connectivity/sync workers into a single
// process lifecycle.
package client
