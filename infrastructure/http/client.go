// Package http builds the outbound HTTP clients used by todo-manager.
package http

import (
	"net/http"
	"time"
)

// Defaults for NewClient.
const (
	DefaultTimeout               = 30 * time.Second
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
)

// ClientConfig configures NewClient. Zero fields take the defaults above.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConnsPerHost int
	// UserAgent, when set, is sent on every request that does not set one.
	UserAgent string
}

// NewClient returns an *http.Client with pooled keep-alive connections.
// A nil cfg means all defaults.
func NewClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	perHost := cfg.MaxIdleConnsPerHost
	if perHost == 0 {
		perHost = DefaultMaxIdleConnsPerHost
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   perHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
	}
	if cfg.UserAgent != "" {
		transport = &userAgentTransport{next: transport, agent: cfg.UserAgent}
	}

	return &http.Client{Timeout: timeout, Transport: transport}
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(clone)
}
