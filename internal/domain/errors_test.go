package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("config.Load", ErrConfigLoad, "casedesk.yaml")
	want := "config.Load: casedesk.yaml: failed to load configuration"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("config.Validate", ErrInvalidInput, "")
	want := "config.Validate: invalid input"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := WrapOp("outer", NewDomainError("backend.Query", ErrTransport, ""))
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "backend.Query", de.Op)
}

func TestNewTransportErrorKeepsCause(t *testing.T) {
	err := NewTransportError("backend.Query", ErrBackendStatus, "status 502")

	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, ErrBackendStatus)
	assert.Equal(t, "backend.Query: status 502: backend request failed: backend returned non-success status", err.Error())
}

func TestNewTransportErrorNilCause(t *testing.T) {
	err := NewTransportError("backend.Health", nil, "")
	assert.True(t, IsTransportError(err))
	assert.Equal(t, "backend.Health: backend request failed", err.Error())
}

func TestNewTransportErrorNoDoubleWrap(t *testing.T) {
	inner := NewTransportError("backend.Query", ErrDecode, "")
	outer := NewTransportError("breaker.Query", inner, "")
	assert.ErrorIs(t, outer, ErrDecode)
	assert.Equal(t, 1, strings.Count(outer.Error(), ErrTransport.Error()))
}

func TestWrapOpNil(t *testing.T) {
	assert.NoError(t, WrapOp("op", nil))
	assert.EqualError(t, WrapOp("op", fmt.Errorf("boom")), "op: boom")
}
