package chathub

import "pingdm/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub, registries and tests can manage
// connections uniformly; WebSocketClient is the production implementation
// and the seam for any future transport.
type Client interface {
	// GetConnID returns the opaque handle of this connection. A user may
	// hold several connections at once, each with its own conn id.
	GetConnID() string
	// GetUserID returns the authenticated user bound to the connection.
	GetUserID() string

	// Deliver queues an event for this connection without blocking. It
	// reports false when the connection is closed or its buffer is full;
	// callers treat that as a dead connection.
	Deliver(ev models.ServerEvent) bool

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts the connection's outbound side down. Idempotent.
	Close()
}
