// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Gateway proxy metrics
	IncProxyRequest(route string, status int)
	IncProxyError(route string)
	ObserveProxyDuration(route string, duration time.Duration)

	// Reset fan-out metrics
	IncResetOutcome(service, status string) // status: "fulfilled" or "rejected"
	ObserveResetDuration(duration time.Duration)

	// Gateway rate limiting
	IncRateLimited()

	// Resource service metrics
	IncRecordCreated(resource string)
	IncRecordUpdated(resource string)
	IncRecordDeleted(resource string)
	IncStoreCleared(resource string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
