package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// BackendChecker pings one backend's liveness endpoint.
type BackendChecker struct {
	name   string
	url    string
	client *http.Client
}

// NewBackendChecker creates a checker for route.
func NewBackendChecker(route Route, client *http.Client) *BackendChecker {
	return &BackendChecker{
		name:   route.Name,
		url:    route.HealthURL(),
		client: client,
	}
}

// Name returns the backend name.
func (b *BackendChecker) Name() string {
	return b.name
}

// Ping returns nil when the backend answers its health probe with 2xx.
func (b *BackendChecker) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return fmt.Errorf("prepare health request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
