package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
)

// clientVersion is reported to MCP servers during initialization.
const clientVersion = "1.0.0"

// mcpClient abstracts the MCP client interface for testability.
type mcpClient interface {
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// MCPTransport reaches the backend through the tools of an MCP server: the
// query tool takes {user_query, session_id}, the health tool takes nothing.
type MCPTransport struct {
	client   mcpClient
	cfg      config.MCPConfig
	endpoint string
	logger   *slog.Logger
}

// NewMCPTransport connects to the MCP server described by cfg and runs the
// initialize handshake.
func NewMCPTransport(ctx context.Context, cfg config.MCPConfig, logger *slog.Logger) (*MCPTransport, error) {
	var c mcpClient

	switch cfg.Transport {
	case "stdio":
		sc, err := mcpclient.NewStdioMCPClient(cfg.Command, envSlice(cfg.Env), cfg.Args...)
		if err != nil {
			return nil, fmt.Errorf("create stdio client: %w", err)
		}
		c = sc
	case "http":
		t, err := transport.NewStreamableHTTP(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("create http transport: %w", err)
		}
		httpClient := mcpclient.NewClient(t)
		if err := httpClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("start http client: %w", err)
		}
		c = httpClient
	default:
		return nil, fmt.Errorf("unsupported mcp transport %q", cfg.Transport)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "casedesk",
		Version: clientVersion,
	}

	if ic, ok := c.(interface {
		Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	}); ok {
		if _, err := ic.Initialize(ctx, initReq); err != nil {
			c.Close()
			return nil, domain.WrapOp("initialize", err)
		}
	}

	logger.Info("mcp backend connected", "transport", cfg.Transport, "tool", cfg.Tool)
	return newMCPTransportWithClient(c, cfg, logger), nil
}

// newMCPTransportWithClient wraps an already-initialized client.
func newMCPTransportWithClient(c mcpClient, cfg config.MCPConfig, logger *slog.Logger) *MCPTransport {
	endpoint := cfg.URL
	if cfg.Transport == "stdio" {
		endpoint = strings.TrimSpace(cfg.Command + " " + strings.Join(cfg.Args, " "))
	}
	return &MCPTransport{
		client:   c,
		cfg:      cfg,
		endpoint: endpoint,
		logger:   logger,
	}
}

// Query implements domain.Transport.
func (t *MCPTransport) Query(ctx context.Context, query, sessionID string) (*domain.Response, error) {
	ctx, span := startSpan(ctx, "backend.query", t.Name(), sessionID)
	defer span.End()

	resp, err := t.call(ctx, "backend.Query", t.cfg.Tool, map[string]any{
		"user_query": query,
		"session_id": sessionID,
	})
	return resp, endSpan(span, resp, err)
}

// Health implements domain.Transport.
func (t *MCPTransport) Health(ctx context.Context, sessionID string) (*domain.Response, error) {
	ctx, span := startSpan(ctx, "backend.health", t.Name(), sessionID)
	defer span.End()

	resp, err := t.call(ctx, "backend.Health", t.cfg.HealthTool, nil)
	return resp, endSpan(span, resp, err)
}

// Name implements domain.Transport.
func (t *MCPTransport) Name() string { return "mcp" }

// Endpoint implements domain.Transport.
func (t *MCPTransport) Endpoint() string {
	return fmt.Sprintf("mcp %s (%s)", t.cfg.Tool, t.endpoint)
}

// Close shuts down the MCP connection.
func (t *MCPTransport) Close() error {
	return t.client.Close()
}

func (t *MCPTransport) call(ctx context.Context, op, tool string, args map[string]any) (*domain.Response, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	t.logger.Debug("mcp tool call", "tool", tool)

	result, err := t.client.CallTool(ctx, req)
	if err != nil {
		return nil, domain.NewTransportError(op, err, "call "+tool)
	}
	if result == nil {
		return nil, domain.NewTransportError(op, domain.ErrDecode, "empty tool result")
	}

	content := extractMCPContent(result)
	if result.IsError {
		return nil, domain.NewTransportError(op, domain.ErrBackendStatus, snippet([]byte(content)))
	}

	resp, err := domain.DecodeResponse([]byte(content))
	if err != nil {
		return nil, domain.NewTransportError(op, err, "")
	}
	return resp, nil
}

// extractMCPContent returns the reply document of a tool result: the joined
// text content, or the structured content when no text is present.
func extractMCPContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		switch v := c.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			return string(data)
		}
	}
	return ""
}

// envSlice converts a map of env vars to sorted KEY=VALUE pairs.
func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

var _ domain.Transport = (*MCPTransport)(nil)
