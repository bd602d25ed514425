package swkauth

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess counts committed logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts credential rejections and transport
	// failures during login.
	MetricLoginFailure
	// MetricLoginSuperseded counts login completions discarded because the
	// session was cleared while the request was in flight.
	MetricLoginSuperseded
	// MetricLogout counts explicit logout transitions.
	MetricLogout
	// MetricSessionExpired counts expiry-timer logouts.
	MetricSessionExpired
	// MetricSessionRestored counts sessions revived from storage at
	// startup.
	MetricSessionRestored
	// MetricSessionPurged counts stored sessions found expired or
	// malformed at startup and removed.
	MetricSessionPurged
	// MetricUnauthorizedIntercepted counts unauthorized responses the
	// gateway intercepted.
	MetricUnauthorizedIntercepted
	// MetricLogoutSignalReceived counts broadcast notifications the
	// authority acted on.
	MetricLogoutSignalReceived
	// MetricStoreWriteFailure counts persistence failures degraded to
	// warnings.
	MetricStoreWriteFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters for session activity. All methods are safe
// for concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
