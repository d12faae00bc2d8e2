package models

// SyncStatus is the user-visible synchronization state of the client. It is
// a pure function of connectivity, queue length, and the outcome of the most
// recent remote attempt; the offline coordinator owns the derivation.
type SyncStatus string

const (
	// StatusSynced: online, the queue is empty, and the last attempt
	// succeeded.
	StatusSynced SyncStatus = "synced"

	// StatusSyncing: a queue drain is in flight.
	StatusSyncing SyncStatus = "syncing"

	// StatusOffline: no connectivity; mutations are being queued.
	StatusOffline SyncStatus = "offline"

	// StatusFailed: online with pending operations whose last attempt
	// errored non-transiently.
	StatusFailed SyncStatus = "failed"
)

// SyncProgress tracks completion of the current queue drain. It resets to
// the zero value whenever the queue empties or a fresh drain starts.
type SyncProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// CoordinatorSnapshot is the push/pull observability surface of the offline
// coordinator, delivered to subscribers on every state change.
type CoordinatorSnapshot struct {
	IsOnline    bool         `json:"is_online"`
	Status      SyncStatus   `json:"status"`
	QueueLength int          `json:"queue_length"`
	Progress    SyncProgress `json:"progress"`
}
