package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/berckan/gamertag/internal/models"
)

// Metrics records the outcome of a checking run on a registry private to it.
// A nil *Metrics is valid and records nothing
type Metrics struct {
	Registry *prometheus.Registry

	ChecksTotal     *prometheus.CounterVec
	AvailableTotal  prometheus.Counter
	RejectedTotal   prometheus.Counter
	BackoffSeconds  prometheus.Counter
	RequestDuration prometheus.Histogram
}

// New creates the run metrics on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamertag_checks_total",
			Help: "Total number of reservation requests by outcome",
		}, []string{"status"}),
		AvailableTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamertag_available_total",
			Help: "Total number of gamertags confirmed available and saved",
		}),
		RejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamertag_rejected_total",
			Help: "Total number of candidates dropped by validation",
		}),
		BackoffSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamertag_backoff_seconds_total",
			Help: "Total seconds spent paused after rate limit responses",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gamertag_request_duration_seconds",
			Help:    "Latency of reservation requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.Registry.MustRegister(
		m.ChecksTotal,
		m.AvailableTotal,
		m.RejectedTotal,
		m.BackoffSeconds,
		m.RequestDuration,
	)
	return m
}

// ObserveCheck counts one classified request and records its latency
func (m *Metrics) ObserveCheck(status models.CheckStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(string(status)).Inc()
	if duration > 0 {
		m.RequestDuration.Observe(duration.Seconds())
	}
}

// IncrementAvailable counts a gamertag saved as available
func (m *Metrics) IncrementAvailable() {
	if m == nil {
		return
	}
	m.AvailableTotal.Inc()
}

// AddRejected counts candidates dropped by validation
func (m *Metrics) AddRejected(count int) {
	if m == nil {
		return
	}
	m.RejectedTotal.Add(float64(count))
}

// AddBackoff adds time spent paused after a 429
func (m *Metrics) AddBackoff(d time.Duration) {
	if m == nil {
		return
	}
	m.BackoffSeconds.Add(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
