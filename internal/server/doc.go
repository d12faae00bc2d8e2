// Package server wires and runs the application's transport server.
//
// It provides orchestration of the HTTP server lifecycle, including startup,
// signal handling, and graceful shutdown.
package server
