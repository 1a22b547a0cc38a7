package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/usecase/conversation"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want cliArgs
	}{
		{"empty", nil, cliArgs{}},
		{"help", []string{"--help"}, cliArgs{Help: true}},
		{"short help", []string{"-h"}, cliArgs{Help: true}},
		{"ask", []string{"ask", "status", "of", "00001163"}, cliArgs{Command: "ask", Query: "status of 00001163"}},
		{"ask quoted", []string{"ask", "Summarize case 00001161"}, cliArgs{Command: "ask", Query: "Summarize case 00001161"}},
		{"health", []string{"health"}, cliArgs{Command: "health"}},
		{"flags before", []string{"--url", "http://x:1", "--transport=mcp", "health"},
			cliArgs{Command: "health", URL: "http://x:1", Transport: "mcp"}},
		{"flags after", []string{"ask", "hi", "--config", "c.yaml"},
			cliArgs{Command: "ask", Query: "hi", ConfigPath: "c.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		msg  string
	}{
		{"ask without query", []string{"ask", "  "}, "ask needs a query"},
		{"unknown command", []string{"dance"}, "unknown command: dance"},
		{"unknown flag", []string{"--verbose"}, "unknown flag: --verbose"},
		{"missing value", []string{"--url"}, "flag --url needs a value"},
		{"health args", []string{"health", "now"}, "health takes no arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.argv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CASEDESK_BACKEND_URL", "CASEDESK_BACKEND_TRANSPORT", "CASEDESK_MCP_COMMAND", "CASEDESK_MCP_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearBackendEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := loadConfig(cliArgs{ConfigPath: path, URL: "http://cases.example:9000"})
	require.NoError(t, err)
	assert.Equal(t, "http://cases.example:9000", cfg.Backend.URL)
	assert.Equal(t, "http", cfg.Backend.Transport)

	_, err = loadConfig(cliArgs{ConfigPath: path, Transport: "pigeon"})
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	clearBackendEnv(t)
	path := filepath.Join(t.TempDir(), "casedesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  url: http://file.example:8000\n"), 0600))

	cfg, err := loadConfig(cliArgs{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://file.example:8000", cfg.Backend.URL)
}

type stubTransport struct {
	resp *domain.Response
	err  error
}

func (s stubTransport) Query(context.Context, string, string) (*domain.Response, error) {
	return s.resp, s.err
}

func (s stubTransport) Health(context.Context, string) (*domain.Response, error) {
	return s.resp, s.err
}

func (stubTransport) Name() string     { return "stub" }
func (stubTransport) Endpoint() string { return "stub://" }

func TestRunOncePrintsPlainView(t *testing.T) {
	resp, err := domain.DecodeResponse([]byte(`{"type":"case_status","case_number":"00001163","status":"Escalated"}`))
	require.NoError(t, err)

	var out bytes.Buffer
	err = runOnce(context.Background(), &out, stubTransport{resp: resp}, conversation.KindQuery, "status of 00001163", slog.Default())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Status of case 00001163: Escalated")
}

func TestRunOnceHealth(t *testing.T) {
	resp, err := domain.DecodeResponse([]byte(`{"type":"salesforce_health","ok":true,"message":"Connected"}`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runOnce(context.Background(), &out, stubTransport{resp: resp}, conversation.KindHealth, "health", slog.Default()))
	assert.Contains(t, out.String(), "connected")
}

func TestRunOnceFailure(t *testing.T) {
	var out bytes.Buffer
	tr := stubTransport{err: domain.NewTransportError("backend.Query", domain.ErrBackendStatus, "status 500: boom")}

	err := runOnce(context.Background(), &out, tr, conversation.KindQuery, "q", slog.Default())
	assert.True(t, errors.Is(err, errRequestFailed))
	assert.Contains(t, out.String(), "Request failed")
	assert.Contains(t, out.String(), "status 500: boom")
}

func TestShowUsage(t *testing.T) {
	var out bytes.Buffer
	showUsage(&out)
	assert.Contains(t, out.String(), "casedesk [FLAGS] ask")
}
