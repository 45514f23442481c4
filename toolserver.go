package a2anet

import "context"

// ToolServer is an external tool provider with an explicit connection
// lifecycle. Servers are connected before a run and closed after it,
// regardless of the run's outcome.
type ToolServer interface {
	// Name identifies the server in logs.
	Name() string

	// Connect establishes the connection. It must be called before the
	// server's tools are used.
	Connect(ctx context.Context) error

	// Close releases the connection. Safe to call after a failed Connect.
	Close() error
}
