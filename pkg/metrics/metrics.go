// Package metrics holds the Prometheus collectors of the service.
// All methods are safe to call on a nil *Metrics so callers can run with metrics disabled.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	appointmentsCreated   *prometheus.CounterVec
	statusTransitions     *prometheus.CounterVec
	capacityRejections    prometheus.Counter
	availabilityDuration  prometheus.Histogram
	availabilityStylists  prometheus.Histogram
	notificationsAttempts *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry.
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Failed database queries by operation.",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_open_connections", Help: "Open connections.", ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections", Help: "Connections in use.", ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections", Help: "Idle connections.", ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_wait_count", Help: "Total connections waited for.", ConstLabels: labels,
		}),
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "salon_appointments_created_total",
			Help:        "Appointments created by branch.",
			ConstLabels: labels,
		}, []string{"branch"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "salon_appointment_transitions_total",
			Help:        "Appointment status transitions by target status.",
			ConstLabels: labels,
		}, []string{"status"}),
		capacityRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_capacity_rejections_total",
			Help:        "Appointment writes rejected because stylist workload was exhausted.",
			ConstLabels: labels,
		}),
		availabilityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "salon_availability_resolution_seconds",
			Help:        "Latency of stylist availability resolution.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		availabilityStylists: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "salon_availability_stylists",
			Help:        "Number of stylists returned per availability resolution.",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		notificationsAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "salon_notifications_total",
			Help:        "Confirmation notifications by channel and result.",
			ConstLabels: labels,
		}, []string{"channel", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.dbQueryDuration, m.dbQueryErrors,
		m.dbOpenConns, m.dbInUseConns, m.dbIdleConns, m.dbWaitCount,
		m.appointmentsCreated, m.statusTransitions, m.capacityRejections,
		m.availabilityDuration, m.availabilityStylists, m.notificationsAttempts,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

func (m *Metrics) IncAppointmentCreated(branchID string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(branchID).Inc()
}

func (m *Metrics) IncStatusTransition(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncCapacityRejected() {
	if m == nil {
		return
	}
	m.capacityRejections.Inc()
}

func (m *Metrics) ObserveAvailability(stylists int, d time.Duration) {
	if m == nil {
		return
	}
	m.availabilityDuration.Observe(d.Seconds())
	m.availabilityStylists.Observe(float64(stylists))
}

func (m *Metrics) IncNotification(channel string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.notificationsAttempts.WithLabelValues(channel, result).Inc()
}
