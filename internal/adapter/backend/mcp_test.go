package backend

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
)

type mockMCPClient struct {
	callFunc func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	closed   bool
}

func (m *mockMCPClient) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.callFunc(ctx, req)
}

func (m *mockMCPClient) Close() error {
	m.closed = true
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func newTestMCPTransport(c mcpClient) *MCPTransport {
	cfg := config.Defaults().Backend.MCP
	cfg.Command = "python"
	cfg.Args = []string{"-m", "app.mcp_server"}
	return newMCPTransportWithClient(c, cfg, slog.Default())
}

func TestMCPTransportQuery(t *testing.T) {
	var gotReq mcp.CallToolRequest
	client := &mockMCPClient{
		callFunc: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			gotReq = req
			return textResult(`{"type":"ok","message":"stored"}`), nil
		},
	}
	tr := newTestMCPTransport(client)

	resp, err := tr.Query(context.Background(), "confirm", "ui-7")
	require.NoError(t, err)

	assert.Equal(t, "ask", gotReq.Params.Name)
	assert.Equal(t, map[string]any{"user_query": "confirm", "session_id": "ui-7"}, gotReq.Params.Arguments)
	assert.Equal(t, domain.TagOK, resp.Type)
	assert.Equal(t, "mcp", tr.Name())
	assert.Equal(t, "mcp ask (python -m app.mcp_server)", tr.Endpoint())
}

func TestMCPTransportHealth(t *testing.T) {
	client := &mockMCPClient{
		callFunc: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			assert.Equal(t, "salesforce_health", req.Params.Name)
			assert.Nil(t, req.Params.Arguments)
			return textResult(`{"type":"salesforce_health","ok":false,"error":"expired"}`), nil
		},
	}
	resp, err := newTestMCPTransport(client).Health(context.Background(), "ui-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TagSalesforceHealth, resp.Type)
}

func TestMCPTransportStructuredContent(t *testing.T) {
	client := &mockMCPClient{
		callFunc: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{
				StructuredContent: map[string]any{"type": "ok", "message": "hi"},
			}, nil
		},
	}
	resp, err := newTestMCPTransport(client).Query(context.Background(), "q", "s")
	require.NoError(t, err)
	assert.Equal(t, domain.TagOK, resp.Type)
}

func TestMCPTransportFailures(t *testing.T) {
	tests := []struct {
		name   string
		result *mcp.CallToolResult
		err    error
		wantIs error
	}{
		{"call error", nil, errors.New("broken pipe"), domain.ErrTransport},
		{"tool error", &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent("boom")}, IsError: true}, nil, domain.ErrBackendStatus},
		{"not json", textResult("hello"), nil, domain.ErrDecode},
		{"empty", &mcp.CallToolResult{}, nil, domain.ErrDecode},
		{"nil result", nil, nil, domain.ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockMCPClient{
				callFunc: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					return tt.result, tt.err
				},
			}
			_, err := newTestMCPTransport(client).Query(context.Background(), "q", "s")
			require.Error(t, err)
			assert.True(t, domain.IsTransportError(err))
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestMCPTransportClose(t *testing.T) {
	client := &mockMCPClient{}
	require.NoError(t, newTestMCPTransport(client).Close())
	assert.True(t, client.closed)
}

func TestNewMCPTransportUnsupported(t *testing.T) {
	_, err := NewMCPTransport(context.Background(), config.MCPConfig{Transport: "carrier-pigeon"}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mcp transport")
}

func TestEnvSliceSorted(t *testing.T) {
	assert.Nil(t, envSlice(nil))
	assert.Equal(t, []string{"A=1", "B=2"}, envSlice(map[string]string{"B": "2", "A": "1"}))
}
