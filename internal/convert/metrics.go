package convert

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call results used as the "result" label.
const (
	resultOK     = "ok"
	resultFailed = "failed"
	resultError  = "error"
)

// Metrics instruments toolkit calls of a Converter.
type Metrics struct {
	calls       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rknnc",
				Subsystem: "toolkit",
				Name:      "calls_total",
				Help:      "Total number of toolkit calls by operation and result",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rknnc",
				Subsystem: "toolkit",
				Name:      "call_duration_seconds",
				Help:      "Duration of toolkit calls in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"op"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rknnc",
				Subsystem: "convert",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful conversion",
			},
		),
	}
	reg.MustRegister(m.calls, m.duration, m.lastSuccess)
	return m
}

func (m *Metrics) observeCall(op string, code int, err error, dur time.Duration) {
	if m == nil {
		return
	}
	result := resultOK
	switch {
	case err != nil:
		result = resultError
	case code != 0:
		result = resultFailed
	}
	m.calls.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *Metrics) succeeded(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(t.Unix()))
}
