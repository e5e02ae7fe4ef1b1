package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request results, used as the "result" label.
const (
	resultOK      = "ok"
	resultInvalid = "invalid"
	resultError   = "error"
)

// Metrics holds the Prometheus collectors of a Server. A nil *Metrics
// records nothing.
type Metrics struct {
	// Requests per operation and result.
	requests *prometheus.CounterVec
	// Size of every binary record accepted for decoding.
	recordBytes *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cellcodec",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Codec requests by operation and result",
		}, []string{"op", "result"}),
		recordBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cellcodec",
			Subsystem: "server",
			Name:      "record_bytes",
			Help:      "Size of binary records submitted for decoding",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"op"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cellcodec",
			Subsystem: "server",
			Name:      "cache_hits_total",
			Help:      "Decoded transactions served from the cache",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cellcodec",
			Subsystem: "server",
			Name:      "cache_misses_total",
			Help:      "Transactions decoded because the cache had no entry",
		}),
	}
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observeRecord(op string, size int) {
	if m == nil {
		return
	}
	m.recordBytes.WithLabelValues(op).Observe(float64(size))
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}
