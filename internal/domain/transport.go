package domain

import "context"

// Transport sends one query to the case backend and returns one decoded reply.
// Every failure (network, non-success status, undecodable body) is reported as
// an error matching ErrTransport. Implementations do not retry.
type Transport interface {
	Query(ctx context.Context, query, sessionID string) (*Response, error)
	Health(ctx context.Context, sessionID string) (*Response, error)
	// Name identifies the transport kind ("http", "mcp").
	Name() string
	// Endpoint describes where requests go, for display.
	Endpoint() string
}
