package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса.
// Методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	BookingsCreated      *prometheus.CounterVec
	BookingConflicts     prometheus.Counter
	BookingsCancelled    prometheus.Counter
	BlocksCreated        *prometheus.CounterVec
	BlockConflicts       prometheus.Counter
	NotificationsFailed  *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
}

// New создает и регистрирует метрики в отдельном реестре
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections", Help: "Open database connections", ConstLabels: constLabels,
		}, []string{"pool"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections", Help: "Database connections in use", ConstLabels: constLabels,
		}, []string{"pool"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections", Help: "Idle database connections", ConstLabels: constLabels,
		}, []string{"pool"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total", Help: "Bookings persisted", ConstLabels: constLabels,
		}, []string{"status"}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflicts_total", Help: "Booking attempts rejected with a conflict", ConstLabels: constLabels,
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_cancelled_total", Help: "Bookings cancelled", ConstLabels: constLabels,
		}),
		BlocksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blocks_created_total", Help: "Unit blocks created", ConstLabels: constLabels,
		}, []string{"source"}),
		BlockConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "block_conflicts_total", Help: "Block attempts rejected with a conflict", ConstLabels: constLabels,
		}),
		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_failed_total", Help: "Notifications not delivered after retries", ConstLabels: constLabels,
		}, []string{"event"}),
		NotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dropped_total", Help: "Notifications dropped because the queue was full", ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.BookingsCreated,
		m.BookingConflicts,
		m.BookingsCancelled,
		m.BlocksCreated,
		m.BlockConflicts,
		m.NotificationsFailed,
		m.NotificationsDropped,
	)

	return m
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) BookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) BookingCancelled() {
	if m == nil {
		return
	}
	m.BookingsCancelled.Inc()
}

func (m *Metrics) BlockCreated(source string) {
	if m == nil {
		return
	}
	m.BlocksCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) BlockConflict() {
	if m == nil {
		return
	}
	m.BlockConflicts.Inc()
}

func (m *Metrics) NotificationFailed(event string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}
