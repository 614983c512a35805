package reconciler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "dotnetes"
	metricsSubsystem = "reconciler"
)

// Pass results used as the "result" label of the passes counter.
const (
	PassResultSuccess = "success"
	PassResultFailure = "failure"
)

// Metrics holds the Prometheus collectors updated by the reconciler.
type Metrics struct {
	Passes        *prometheus.CounterVec
	Created       *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	PassDuration  prometheus.Histogram
	LastPassStart prometheus.Gauge
	Applications  prometheus.Gauge
}

// NewMetrics creates the reconciler collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "passes_total",
			Help:      "Number of reconciliation passes by result.",
		}, []string{"result"}),
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "created_total",
			Help:      "Number of workload objects created by kind.",
		}, []string{"kind"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "failures_total",
			Help:      "Number of isolated failures by kind and stage.",
		}, []string{"kind", "stage"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a full reconciliation pass.",
			Buckets:   prometheus.DefBuckets,
		}),
		LastPassStart: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "last_pass_start_timestamp_seconds",
			Help:      "Unix time at which the last pass started.",
		}),
		Applications: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "applications",
			Help:      "Number of DotNetApps seen in the last pass.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Passes, m.Created, m.Failures, m.PassDuration, m.LastPassStart, m.Applications)
	}
	return m
}

func (m *Metrics) passStarted(start time.Time) {
	m.LastPassStart.Set(float64(start.Unix()))
}

func (m *Metrics) passFinished(start time.Time, applications int, ok bool) {
	m.PassDuration.Observe(time.Since(start).Seconds())
	m.Applications.Set(float64(applications))
	if ok {
		m.Passes.WithLabelValues(PassResultSuccess).Inc()
	} else {
		m.Passes.WithLabelValues(PassResultFailure).Inc()
	}
}

func (m *Metrics) created(kind string) {
	m.Created.WithLabelValues(kind).Inc()
}

func (m *Metrics) failed(kind, stage string) {
	m.Failures.WithLabelValues(kind, stage).Inc()
}
