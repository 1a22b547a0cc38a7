package uxerror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"casedesk/internal/domain"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"circuit open", domain.NewTransportError("backend.Query", domain.ErrCircuitOpen, "http"), "Backend Paused"},
		{"decode", domain.NewTransportError("backend.Query", domain.ErrDecode, ""), "Unreadable Reply"},
		{"too large", domain.NewTransportError("backend.Query", domain.ErrReplyTooLarge, "more than 10 bytes"), "Reply Too Large"},
		{"status", domain.NewTransportError("backend.Query", domain.ErrBackendStatus, "status 500: boom"), "Backend Error"},
		{"unauthorized", domain.NewTransportError("backend.Query", domain.ErrBackendStatus, "status 401: nope"), "Authentication Failed"},
		{"refused", domain.NewTransportError("backend.Query", errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), ""), "Connection Failed"},
		{"deadline", domain.NewTransportError("backend.Query", context.DeadlineExceeded, ""), "Request Timed Out"},
		{"canceled", domain.NewTransportError("backend.Query", context.Canceled, ""), "Request Canceled"},
		{"other", fmt.Errorf("something odd"), "Unexpected Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.title, Humanize(tt.err).Title)
		})
	}
}

func TestHumanizeNil(t *testing.T) {
	assert.Equal(t, "Unknown Error", Humanize(nil).Title)
}

func TestDescribe(t *testing.T) {
	err := domain.NewTransportError("backend.Query", domain.ErrBackendStatus, "status 502: bad gateway")
	got := Describe(err)

	assert.True(t, strings.HasPrefix(got, "Request failed: Backend Error"))
	assert.Contains(t, got, "status 502: bad gateway")
	assert.Contains(t, got, "Suggestions:")
}

func TestRenderOmitsDuplicateDetail(t *testing.T) {
	fe := FriendlyError{Title: "T", Message: "same", Raw: "same"}
	assert.Equal(t, "T\n  same", fe.Render())
}
