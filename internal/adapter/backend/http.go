package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
)

// queryRequest is the body of POST {query_path}.
type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// HTTPTransport talks to the backend's REST endpoints.
type HTTPTransport struct {
	client    *http.Client
	queryURL  string
	healthURL string
	authToken string
	maxBody   int64
	logger    *slog.Logger
}

// NewHTTPTransport creates a transport for cfg. A nil client gets
// NewHTTPClient(cfg).
func NewHTTPTransport(cfg config.BackendConfig, client *http.Client, logger *slog.Logger) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(cfg)
	}
	base := strings.TrimRight(cfg.URL, "/")
	return &HTTPTransport{
		client:    client,
		queryURL:  base + cfg.QueryPath,
		healthURL: base + cfg.HealthPath,
		authToken: cfg.AuthToken,
		maxBody:   maxResponseBody,
		logger:    logger,
	}
}

// Query implements domain.Transport.
func (t *HTTPTransport) Query(ctx context.Context, query, sessionID string) (*domain.Response, error) {
	ctx, span := startSpan(ctx, "backend.query", t.Name(), sessionID)
	defer span.End()

	body, err := json.Marshal(queryRequest{Query: query, SessionID: sessionID})
	if err != nil {
		return nil, endSpan(span, nil, domain.NewTransportError("backend.Query", err, "encode request"))
	}
	resp, err := t.do(ctx, "backend.Query", http.MethodPost, t.queryURL, body)
	endSpan(span, resp, err)
	if err == nil {
		t.logger.Debug("backend query completed", "transport", t.Name(), "type", resp.Type)
	}
	return resp, err
}

// Health implements domain.Transport.
func (t *HTTPTransport) Health(ctx context.Context, sessionID string) (*domain.Response, error) {
	ctx, span := startSpan(ctx, "backend.health", t.Name(), sessionID)
	defer span.End()

	resp, err := t.do(ctx, "backend.Health", http.MethodGet, t.healthURL, nil)
	return resp, endSpan(span, resp, err)
}

// Name implements domain.Transport.
func (t *HTTPTransport) Name() string { return "http" }

// Endpoint implements domain.Transport.
func (t *HTTPTransport) Endpoint() string { return "POST " + t.queryURL }

// do performs one request and decodes the reply. Every failure is a
// transport error; the cause says which step failed.
func (t *HTTPTransport) do(ctx context.Context, op, method, url string, body []byte) (*domain.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, domain.NewTransportError(op, err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.authToken)
	}

	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(op, err, "")
	}
	defer httpResp.Body.Close()

	// One byte past the cap tells a full-size reply from an oversized one.
	data, err := io.ReadAll(io.LimitReader(httpResp.Body, t.maxBody+1))
	if err != nil {
		return nil, domain.NewTransportError(op, err, "read response")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, domain.NewTransportError(op, domain.ErrBackendStatus,
			fmt.Sprintf("status %d: %s", httpResp.StatusCode, snippet(data)))
	}
	if int64(len(data)) > t.maxBody {
		return nil, domain.NewTransportError(op, domain.ErrReplyTooLarge,
			fmt.Sprintf("more than %d bytes", t.maxBody))
	}

	resp, err := domain.DecodeResponse(data)
	if err != nil {
		return nil, domain.NewTransportError(op, err, "")
	}
	return resp, nil
}

// snippet shortens a response body for error messages.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}

var _ domain.Transport = (*HTTPTransport)(nil)
