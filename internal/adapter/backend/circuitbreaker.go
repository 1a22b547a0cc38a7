package backend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// Breaker wraps a Transport with circuit breaker protection. After repeated
// failures the circuit opens and calls fail fast with ErrCircuitOpen until
// the timeout lets a single trial request through.
type Breaker struct {
	inner   domain.Transport
	breaker *gobreaker.CircuitBreaker[*domain.Response]
	logger  *slog.Logger
}

// NewBreaker wraps inner with a circuit breaker. Zero-valued settings fall
// back to defaults.
func NewBreaker(inner domain.Transport, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Breaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[*domain.Response](gobreaker.Settings{
		Name:        "backend:" + inner.Name(),
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// A request the user abandoned says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{inner: inner, breaker: cb, logger: logger}
}

// Query implements domain.Transport.
func (b *Breaker) Query(ctx context.Context, query, sessionID string) (*domain.Response, error) {
	return b.execute("backend.Query", func() (*domain.Response, error) {
		return b.inner.Query(ctx, query, sessionID)
	})
}

// Health implements domain.Transport.
func (b *Breaker) Health(ctx context.Context, sessionID string) (*domain.Response, error) {
	return b.execute("backend.Health", func() (*domain.Response, error) {
		return b.inner.Health(ctx, sessionID)
	})
}

func (b *Breaker) execute(op string, fn func() (*domain.Response, error)) (*domain.Response, error) {
	resp, err := b.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewTransportError(op, domain.ErrCircuitOpen, b.inner.Name())
		}
		return nil, err
	}
	return resp, nil
}

// Name implements domain.Transport.
func (b *Breaker) Name() string { return b.inner.Name() }

// Endpoint implements domain.Transport.
func (b *Breaker) Endpoint() string { return b.inner.Endpoint() }

// State returns the current circuit breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the current circuit breaker failure/success counts.
func (b *Breaker) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

// Close closes the wrapped transport when it holds a connection.
func (b *Breaker) Close() error {
	if c, ok := b.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

var _ domain.Transport = (*Breaker)(nil)
