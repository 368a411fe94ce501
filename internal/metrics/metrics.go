// Package metrics - Prometheus метрики HTTP слоя и фоновых задач
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	RegistrationsTotal *prometheus.CounterVec
	ReconcileRunsTotal *prometheus.CounterVec
	ReconciledIntents  prometheus.Counter
	ReconcileDuration  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New регистрирует метрики в reg. nil - глобальный реестр.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Completed registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		ReconcileRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registration_reconcile_runs_total",
				Help:      "Registration reconcile cycles by outcome",
			},
			[]string{"outcome"},
		),
		ReconciledIntents: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registration_intents_reconciled_total",
				Help:      "Registration intents replayed into the database",
			},
		),
		ReconcileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registration_reconcile_duration_seconds",
				Help:      "Registration reconcile cycle duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		gatherer: gatherer,
	}
}

// Middleware считает запросы. Путь берется из шаблона маршрута, чтобы не плодить метки по ID.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler отдает метрики из того же реестра
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRegistration(outcome string) {
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordReconcile фиксирует цикл воркера сверки регистраций
func (m *Metrics) RecordReconcile(duration time.Duration, reconciled int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ReconcileRunsTotal.WithLabelValues(outcome).Inc()
	m.ReconcileDuration.Observe(duration.Seconds())
	m.ReconciledIntents.Add(float64(reconciled))
}
