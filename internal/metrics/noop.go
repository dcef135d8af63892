package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncProxyRequest(route string, status int) {}

func (n *NoopRecorder) IncProxyError(route string) {}

func (n *NoopRecorder) ObserveProxyDuration(route string, duration time.Duration) {}

func (n *NoopRecorder) IncResetOutcome(service, status string) {}

func (n *NoopRecorder) ObserveResetDuration(duration time.Duration) {}

func (n *NoopRecorder) IncRateLimited() {}

func (n *NoopRecorder) IncRecordCreated(resource string) {}

func (n *NoopRecorder) IncRecordUpdated(resource string) {}

func (n *NoopRecorder) IncRecordDeleted(resource string) {}

func (n *NoopRecorder) IncStoreCleared(resource string) {}
