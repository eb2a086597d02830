package zwave

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "zwave"

type metrics struct {
	events        *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	publications  prometheus.Counter
	suppressed    prometheus.Counter
	registrations *prometheus.CounterVec
	nodes         prometheus.Gauge
}

// newMetrics registers the session collectors on reg, or on a private
// registry when reg is nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Driver events handled, by kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_dropped_total",
			Help:      "Driver events dropped as invalid or referring to an unknown node.",
		}, []string{"kind"}),
		publications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "publications_total",
			Help:      "Messages handed to the publication gateway.",
		}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "value_changes_suppressed_total",
			Help:      "Value changes not published because nothing changed.",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Flow registrations, by result.",
		}, []string{"result"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "nodes",
			Help:      "Nodes in the registry.",
		}),
	}
	reg.MustRegister(m.events, m.dropped, m.publications, m.suppressed, m.registrations, m.nodes)
	return m
}
