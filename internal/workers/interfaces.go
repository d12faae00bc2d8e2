// Package workers provides abstractions for managing and running
// background workers of the client application.
// It defines the Worker interface and a Workers aggregate that allows
// launching multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations must not block: long-running work is expected to run on
// internal goroutines that stop when ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
