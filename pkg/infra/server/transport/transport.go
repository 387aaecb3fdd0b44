// Package transport defines what the bootstrap needs from a network server.
package transport

import "context"

// Transport is a server with a start/stop lifecycle.
type Transport interface {
	// Start binds and begins serving. A bind failure is returned
	// synchronously.
	Start(ctx context.Context) error
	// Stop stops the server gracefully.
	Stop(ctx context.Context) error
	// Name returns the transport name, e.g. "http".
	Name() string
}
