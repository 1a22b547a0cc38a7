package backend

import (
	"net"
	"net/http"
	"time"

	"casedesk/internal/infra/config"
)

// maxResponseBody is the maximum reply size read from the backend.
const maxResponseBody = 10 * 1024 * 1024 // 10 MB

// Default connection pool settings. The client talks to one host and sends
// one request at a time, so the pool stays small.
const (
	defaultConnTimeout         = 10 * time.Second
	defaultMaxIdleConns        = 4
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 90 * time.Second
)

// NewPooledTransport creates an http.Transport with connection pooling.
// respTimeout bounds the wait for response headers; 0 waits indefinitely.
func NewPooledTransport(connTimeout, respTimeout time.Duration, pool config.PoolConfig) *http.Transport {
	if connTimeout <= 0 {
		connTimeout = defaultConnTimeout
	}
	maxIdle := pool.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxIdlePerHost := pool.MaxIdleConnsPerHost
	if maxIdlePerHost <= 0 {
		maxIdlePerHost = defaultMaxIdleConnsPerHost
	}
	idleTimeout := pool.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleConnTimeout
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: respTimeout,
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		IdleConnTimeout:       idleTimeout,
		ForceAttemptHTTP2:     true,
	}
}

// NewHTTPClient creates an *http.Client for the backend. Only the dial is
// bounded by default; an overall deadline applies when resp_timeout is set.
func NewHTTPClient(cfg config.BackendConfig) *http.Client {
	connTimeout := cfg.ConnTimeout
	if connTimeout <= 0 {
		connTimeout = defaultConnTimeout
	}
	client := &http.Client{
		Transport: NewPooledTransport(connTimeout, cfg.RespTimeout, cfg.Pool),
	}
	if cfg.RespTimeout > 0 {
		client.Timeout = connTimeout + cfg.RespTimeout
	}
	return client
}
