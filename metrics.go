package orbitsim

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects per-run tick statistics.
type Metrics struct {
	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	bodies        prometheus.Gauge
	domainErrors  *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg. Tests pass
// a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orbitsim_ticks_total",
			Help: "Total number of completed simulation ticks",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orbitsim_tick_duration_seconds",
			Help:    "Time spent integrating one tick",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitsim_bodies",
			Help: "Number of orbiting bodies in the run",
		}),
		domainErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_domain_errors_total",
				Help: "Ticks aborted by a domain error",
			},
			[]string{"op"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_commands_total",
				Help: "Input commands processed between ticks",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.ticksTotal)
	reg.MustRegister(m.tickDuration)
	reg.MustRegister(m.bodies)
	reg.MustRegister(m.domainErrors)
	reg.MustRegister(m.commandsTotal)

	return m
}

// RecordTick records one completed tick.
func (m *Metrics) RecordTick(bodies int, duration time.Duration) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(duration.Seconds())
	m.bodies.Set(float64(bodies))
}

// RecordError counts a failed tick, labelled by the failing step when the
// error is a *DomainError.
func (m *Metrics) RecordError(err error) {
	op := "other"
	var de *DomainError
	if errors.As(err, &de) {
		op = de.Op
	}
	m.domainErrors.WithLabelValues(op).Inc()
}

// RecordCommand counts an applied or rejected input command.
func (m *Metrics) RecordCommand(err error) {
	result := "applied"
	if err != nil {
		result = "rejected"
	}
	m.commandsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
