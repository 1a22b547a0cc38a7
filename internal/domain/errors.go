package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrTransport     = fmt.Errorf("backend request failed")
	ErrBackendStatus = fmt.Errorf("backend returned non-success status")
	ErrDecode        = fmt.Errorf("backend reply is not a JSON object")
	ErrReplyTooLarge = fmt.Errorf("backend reply too large")
	ErrCircuitOpen   = fmt.Errorf("backend circuit open")
	ErrConfigLoad    = fmt.Errorf("failed to load configuration")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrDecryption    = fmt.Errorf("decryption failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "backend.Query")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// NewTransportError normalizes any backend failure into a single DomainError.
// The result always matches ErrTransport; cause (a sentinel such as
// ErrBackendStatus, or a network error) stays reachable through errors.Is.
func NewTransportError(op string, cause error, detail string) *DomainError {
	switch {
	case cause == nil:
		cause = ErrTransport
	case errors.Is(cause, ErrTransport):
	default:
		cause = fmt.Errorf("%w: %w", ErrTransport, cause)
	}
	return &DomainError{Op: op, Err: cause, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTransportError reports whether err is a normalized backend failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
