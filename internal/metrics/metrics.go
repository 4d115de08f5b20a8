// Package metrics exposes update activity of a model as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/model"
)

const namespace = "paragrid"

// Metrics implements model.Recorder on a private Prometheus registry, so
// several instances can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	namespaceUpdates *prometheus.CounterVec
	updateDuration   *prometheus.HistogramVec
	objectUpdates    *prometheus.CounterVec
	notPrimed        *prometheus.CounterVec
	cycles           *prometheus.CounterVec
	events           *prometheus.CounterVec
}

var _ model.Recorder = (*Metrics)(nil)

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		namespaceUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "namespace_updates_total",
				Help:      "Total number of namespace updates by namespace kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		updateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "namespace_update_duration_seconds",
				Help:      "Time spent updating a namespace, including its members.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind"},
		),
		objectUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "object_updates_total",
				Help:      "Total number of object method runs by type, method and outcome.",
			},
			[]string{"type", "method", "outcome"},
		),
		notPrimed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "object_updates_not_primed_total",
				Help:      "Object updates refused because an input was unbound, by type.",
			},
			[]string{"type"},
		),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dependency_cycles_total",
				Help:      "Namespace updates aborted by a dependency cycle.",
			},
			[]string{"namespace"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Events published on the model bus by kind.",
			},
			[]string{"kind", "forwarded"},
		),
	}
	m.registry.MustRegister(
		m.namespaceUpdates,
		m.updateDuration,
		m.objectUpdates,
		m.notPrimed,
		m.cycles,
		m.events,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NamespaceUpdated implements model.Recorder.
func (m *Metrics) NamespaceUpdated(kind string, elapsed time.Duration, err error) {
	m.namespaceUpdates.WithLabelValues(kind, outcome(err)).Inc()
	m.updateDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObjectUpdated implements model.Recorder.
func (m *Metrics) ObjectUpdated(typeName, method string, err error) {
	m.objectUpdates.WithLabelValues(typeName, method, outcome(err)).Inc()
}

// ObjectNotPrimed implements model.Recorder.
func (m *Metrics) ObjectNotPrimed(typeName string) {
	m.notPrimed.WithLabelValues(typeName).Inc()
}

// CycleDetected implements model.Recorder.
func (m *Metrics) CycleDetected(ns string) {
	if ns == "" {
		ns = "<root>"
	}
	m.cycles.WithLabelValues(ns).Inc()
}

// Observe counts a delivered event. Copies relayed by namespaces are
// counted under forwarded="true".
func (m *Metrics) Observe(ev event.Event) {
	m.events.WithLabelValues(ev.Kind.String(), strconv.FormatBool(ev.Forwarded())).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
