package lightbridge

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the bridge's Prometheus metrics. A nil *Metrics is valid
// and records nothing, so instrumentation points never need nil checks at
// the call site.
type Metrics struct {
	registry    *prometheus.Registry
	commands    *prometheus.CounterVec
	exchanges   *prometheus.CounterVec
	connections prometheus.Gauge
}

// NewMetrics creates and registers the bridge metric set on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lightbridge_commands_total",
				Help: "Total client commands handled, by command and result",
			},
			[]string{"command", "result"},
		),
		exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lightbridge_device_exchanges_total",
				Help: "Total serial device exchanges, by result",
			},
			[]string{"result"},
		),
		connections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lightbridge_active_connections",
				Help: "Currently open client connections",
			},
		),
	}
	m.registry.MustRegister(m.commands, m.exchanges, m.connections)
	return m
}

// Handler serves the metric set in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) commandHandled(command string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, resultLabel(err)).Inc()
}

func (m *Metrics) exchangeDone(err error) {
	if m == nil {
		return
	}
	m.exchanges.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) connOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) connClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
