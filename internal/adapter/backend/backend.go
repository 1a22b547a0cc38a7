// Package backend implements the transports that carry queries to the case
// backend: plain HTTP against its REST endpoints, or a tool call on an MCP
// server. Both are optionally guarded by a circuit breaker.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
)

// Backend is a Transport that may hold a connection.
type Backend interface {
	domain.Transport
	Close() error
}

// New builds the transport selected by cfg.Transport.
func New(ctx context.Context, cfg config.BackendConfig, logger *slog.Logger) (Backend, error) {
	var tr domain.Transport
	switch cfg.Transport {
	case "http", "":
		tr = NewHTTPTransport(cfg, nil, logger)
	case "mcp":
		m, err := NewMCPTransport(ctx, cfg.MCP, logger)
		if err != nil {
			return nil, domain.WrapOp("backend.New", err)
		}
		tr = m
	default:
		return nil, fmt.Errorf("backend.New: unsupported transport %q", cfg.Transport)
	}

	if cfg.CircuitBreaker.Enabled {
		return NewBreaker(tr, cfg.CircuitBreaker, logger), nil
	}
	return closer{tr}, nil
}

// closer adds Close to transports that may not hold a connection.
type closer struct {
	domain.Transport
}

func (c closer) Close() error {
	if cl, ok := c.Transport.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}
