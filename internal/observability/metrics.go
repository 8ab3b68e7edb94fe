// Package observability exposes store and HTTP activity as Prometheus metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ic "irrigation_controller"
	"irrigation_controller/internal/store"
)

const namespace = "irrigation"

// Metrics implements store.Observer and handlers.RequestObserver.
type Metrics struct {
	gatherer prometheus.Gatherer

	commits       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	persistFails  *prometheus.CounterVec
	pressure      prometheus.Gauge
	activeZones   prometheus.Gauge
	zones         prometheus.Gauge
	sessions      prometheus.Gauge
	pending       prometheus.Gauge

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_commits_total",
			Help:      "State commits by action.",
		}, []string{"action"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Notifications derived from state transitions, by type.",
		}, []string{"type"}),
		persistFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed slot writes.",
		}, []string{"slot"}),
		pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "water_pressure_bar",
			Help:      "Last committed water pressure.",
		}),
		activeZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_zones",
			Help:      "Zones currently switched on.",
		}),
		zones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zones",
			Help:      "Configured zones.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watering_sessions",
			Help:      "Recorded watering sessions.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_notifications",
			Help:      "Notifications not yet dismissed.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.commits, m.notifications, m.persistFails,
		m.pressure, m.activeZones, m.zones, m.sessions, m.pending,
		m.requests, m.latency,
	)
	return m
}

func (m *Metrics) StateCommitted(action string, s store.State) {
	m.commits.WithLabelValues(action).Inc()
	m.pressure.Set(s.SystemStatus.WaterPressure)
	m.activeZones.Set(float64(len(s.ActiveZones)))
	m.zones.Set(float64(len(s.Zones)))
	m.sessions.Set(float64(len(s.Sessions)))
	m.pending.Set(float64(len(s.Notifications)))
}

func (m *Metrics) NotificationEmitted(n ic.Notification) {
	m.notifications.WithLabelValues(string(n.Type)).Inc()
}

func (m *Metrics) PersistFailed(slot string, _ error) {
	m.persistFails.WithLabelValues(slot).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
