// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medivault"

type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	LoginsTotal         *prometheus.CounterVec
	RegistrationsTotal  *prometheus.CounterVec
	AccessDeniedTotal   *prometheus.CounterVec
	AppointmentsBooked  prometheus.Counter
	PrescriptionsIssued prometheus.Counter
	DocumentsAdded      prometheus.Counter
}

// NewCollector registers every collector on a fresh registry so that several
// collectors can coexist in one process, as they do in tests.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),

		RegistrationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Accounts registered by role.",
		}, []string{"role"}),

		AccessDeniedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "access_denied_total",
			Help:      "Requests refused by the authorization policy, by operation.",
		}, []string{"operation"}),

		AppointmentsBooked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinical",
			Name:      "appointments_booked_total",
			Help:      "Total appointments booked.",
		}),

		PrescriptionsIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinical",
			Name:      "prescriptions_issued_total",
			Help:      "Total prescriptions issued.",
		}),

		DocumentsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinical",
			Name:      "documents_added_total",
			Help:      "Total document metadata records added.",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
