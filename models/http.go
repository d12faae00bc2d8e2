// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ReconcileRequest is the batch reconciliation payload sent by the client.
// Each collection is an independent array; records are reconciled one by one
// and one record's failure never aborts the batch.
type ReconcileRequest struct {
	Items   []Entity `json:"items"`
	Tasks   []Entity `json:"tasks"`
	Journal []Entity `json:"journal"`
}

// Len returns the total number of records in the request.
func (r ReconcileRequest) Len() int {
	return len(r.Items) + len(r.Tasks) + len(r.Journal)
}

// Reasons attached to rejected per-record reconciliation outcomes.
const (
	// ReasonServerNewer: the stored UpdatedAt is greater than or equal to
	// the incoming one; the server wins ties and nothing was mutated.
	ReasonServerNewer = "server_newer"

	// ReasonStorageError: the record could not be read or written; the rest
	// of the batch still ran.
	ReasonStorageError = "storage_error"

	// ReasonInvalidRecord: the record failed validation (missing id, bad
	// type, absent clock).
	ReasonInvalidRecord = "invalid_record"
)

// ReconcileResult is the outcome of reconciling a single record.
type ReconcileResult struct {
	Type    EntityType `json:"type"`
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Reason  string     `json:"reason,omitempty"`
}

// ReconcileResponse is the server's answer to a batch reconciliation call.
// ServerTimestamp is the unix-millisecond server clock at batch completion;
// the caller's LastSyncMarker advances to it unconditionally, regardless of
// individual per-record outcomes.
type ReconcileResponse struct {
	Success         bool              `json:"success"`
	Results         []ReconcileResult `json:"results"`
	ServerTimestamp int64             `json:"server_timestamp"`
}

// SnapshotResponse is the full-dataset pull used to refresh client state
// after reconnects, independent of the incremental queue mechanism.
type SnapshotResponse struct {
	Items           []Entity   `json:"items"`
	Tasks           []Entity   `json:"tasks"`
	Journal         []Entity   `json:"journal"`
	Tags            []Tag      `json:"tags"`
	Categories      []Category `json:"categories"`
	ServerTimestamp int64      `json:"server_timestamp"`
}

// SyncMarkerResponse reports the caller's last completed reconcile batch
// timestamp, in unix milliseconds. Zero means the user has never synced.
type SyncMarkerResponse struct {
	LastSyncTimestamp int64 `json:"last_sync_timestamp"`
}

// VersionResponse reports the running server build.
type VersionResponse struct {
	Version string `json:"version"`
}
