package metrics

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Duration accumulates a count and a total for a timed operation.
type Duration struct {
	Count   uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
// Map keys are label values; ProxyRequests is keyed by "route|status".
type Snapshot struct {
	ProxyRequests  map[string]uint64
	ProxyErrors    map[string]uint64
	ProxyDurations map[string]Duration
	ResetOutcomes  map[string]uint64 // keyed by "service|status"
	ResetDuration  Duration
	RateLimited    uint64
	RecordsCreated map[string]uint64
	RecordsUpdated map[string]uint64
	RecordsDeleted map[string]uint64
	StoresCleared  map[string]uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics
// endpoints and is handy in tests.
type InMemoryRecorder struct {
	mu             sync.Mutex
	proxyRequests  map[string]uint64
	proxyErrors    map[string]uint64
	proxyDurations map[string]Duration
	resetOutcomes  map[string]uint64
	recordsCreated map[string]uint64
	recordsUpdated map[string]uint64
	recordsDeleted map[string]uint64
	storesCleared  map[string]uint64

	resetDurationCount   uint64
	resetDurationTotalNs int64
	rateLimited          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		proxyRequests:  make(map[string]uint64),
		proxyErrors:    make(map[string]uint64),
		proxyDurations: make(map[string]Duration),
		resetOutcomes:  make(map[string]uint64),
		recordsCreated: make(map[string]uint64),
		recordsUpdated: make(map[string]uint64),
		recordsDeleted: make(map[string]uint64),
		storesCleared:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	durations := make(map[string]Duration, len(m.proxyDurations))
	for k, v := range m.proxyDurations {
		durations[k] = v
	}

	return Snapshot{
		ProxyRequests:  copyCounters(m.proxyRequests),
		ProxyErrors:    copyCounters(m.proxyErrors),
		ProxyDurations: durations,
		ResetOutcomes:  copyCounters(m.resetOutcomes),
		ResetDuration: Duration{
			Count:   atomic.LoadUint64(&m.resetDurationCount),
			TotalNs: atomic.LoadInt64(&m.resetDurationTotalNs),
		},
		RateLimited:    atomic.LoadUint64(&m.rateLimited),
		RecordsCreated: copyCounters(m.recordsCreated),
		RecordsUpdated: copyCounters(m.recordsUpdated),
		RecordsDeleted: copyCounters(m.recordsDeleted),
		StoresCleared:  copyCounters(m.storesCleared),
	}
}

// IncProxyRequest counts a forwarded request by route and upstream status.
func (m *InMemoryRecorder) IncProxyRequest(route string, status int) {
	m.inc(m.proxyRequests, route+"|"+strconv.Itoa(status))
}

// IncProxyError counts a request the upstream never answered.
func (m *InMemoryRecorder) IncProxyError(route string) {
	m.inc(m.proxyErrors, route)
}

// ObserveProxyDuration records the round trip of a forwarded request.
func (m *InMemoryRecorder) ObserveProxyDuration(route string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.proxyDurations[route]
	d.Count++
	d.TotalNs += duration.Nanoseconds()
	m.proxyDurations[route] = d
}

// IncResetOutcome counts one settled reset branch.
func (m *InMemoryRecorder) IncResetOutcome(service, status string) {
	m.inc(m.resetOutcomes, service+"|"+status)
}

// ObserveResetDuration records how long a whole reset took to settle.
func (m *InMemoryRecorder) ObserveResetDuration(duration time.Duration) {
	atomic.AddUint64(&m.resetDurationCount, 1)
	atomic.AddInt64(&m.resetDurationTotalNs, duration.Nanoseconds())
}

// IncRateLimited counts a rejected request.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncRecordCreated increments the created counter for resource.
func (m *InMemoryRecorder) IncRecordCreated(resource string) {
	m.inc(m.recordsCreated, resource)
}

// IncRecordUpdated increments the updated counter for resource.
func (m *InMemoryRecorder) IncRecordUpdated(resource string) {
	m.inc(m.recordsUpdated, resource)
}

// IncRecordDeleted increments the deleted counter for resource.
func (m *InMemoryRecorder) IncRecordDeleted(resource string) {
	m.inc(m.recordsDeleted, resource)
}

// IncStoreCleared increments the clear-all counter for resource.
func (m *InMemoryRecorder) IncStoreCleared(resource string) {
	m.inc(m.storesCleared, resource)
}

func (m *InMemoryRecorder) inc(counters map[string]uint64, key string) {
	m.mu.Lock()
	counters[key]++
	m.mu.Unlock()
}

func copyCounters(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
