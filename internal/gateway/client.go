package gateway

import (
	"net"
	"net/http"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// IdleConnTimeout is how long an idle upstream connection is kept.
	IdleConnTimeout = 90 * time.Second
)

// NewTransport creates the upstream transport shared by the proxy and the
// reset coordinator. responseHeaderTimeout bounds how long a backend may
// take to start answering.
func NewTransport(responseHeaderTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: responseHeaderTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       IdleConnTimeout,
	}
}

// NewHTTPClient creates a client for gateway-originated calls (reset
// fan-out, readiness checks). Redirects are not followed; timeouts are
// applied per call through the request context.
func NewHTTPClient(transport http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
