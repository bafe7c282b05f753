package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics bundles the Prometheus collectors exposed on /metrics.
type metrics struct {
	registry    *prometheus.Registry
	connected   prometheus.Gauge
	transitions prometheus.Counter
	apiRequests *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aio",
			Name:      "connected",
			Help:      "Whether an Echo AIO unit is currently connected (1) or not (0).",
		}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aio",
			Name:      "connection_transitions_total",
			Help:      "Number of connect/disconnect transitions observed since startup.",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aio",
			Name:      "api_requests_total",
			Help:      "API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	m.registry.MustRegister(m.connected, m.transitions, m.apiRequests)

	return m
}

// handler returns the HTTP handler serving the metrics registry.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observe records the outcome of one API operation.
func (m *metrics) observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.apiRequests.WithLabelValues(operation, outcome).Inc()
}

// setConnected updates the connection gauge.
func (m *metrics) setConnected(connected bool) {
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}
