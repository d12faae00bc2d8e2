package server

// Server is the lifecycle contract of the note-keeper API server.
//
// Implementations block in [RunServer] until a stop signal arrives and
// release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
