package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics
const (
	MetricAuthenticationEvent  = "authentication_event"
	MetricTransactionOperation = "transaction_operation"
	MetricChatIntent           = "chat_intent"
	MetricChatDuration         = "chat_duration"
	MetricDashboardDuration    = "dashboard_duration"
	MetricTransactionAmount    = "transaction_amount"
)

type PrometheusMetrics struct {
	authenticationEventsTotal *prometheus.CounterVec
	transactionOperations     *prometheus.CounterVec
	transactionAmount         *prometheus.HistogramVec
	chatIntentsTotal          *prometheus.CounterVec
	chatDuration              prometheus.Histogram
	dashboardDuration         prometheus.Histogram
}

// NewPrometheusMetrics registers the finance metrics on reg.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		transactionOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_transaction_operations_total",
				Help: "Total number of transaction operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		transactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finance_transaction_amount",
				Help:    "Amount of created transactions by type",
				Buckets: prometheus.ExponentialBuckets(1, 10, 7),
			},
			[]string{"type"},
		),
		chatIntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_chat_intents_total",
				Help: "Total number of assistant answers by intent",
			},
			[]string{"intent"},
		),
		chatDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finance_chat_duration_milliseconds",
				Help:    "Time to answer a chat question in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		dashboardDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finance_dashboard_duration_seconds",
				Help:    "Dashboard aggregation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricAuthenticationEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case MetricTransactionOperation:
		if operation := tags["operation"]; operation != "" {
			status := tags["status"]
			if status == "" {
				status = "success"
			}
			m.transactionOperations.WithLabelValues(operation, status).Inc()
		}
	case MetricChatIntent:
		if intent := tags["intent"]; intent != "" {
			m.chatIntentsTotal.WithLabelValues(intent).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricChatDuration:
		m.chatDuration.Observe(float64(duration.Milliseconds()))
	case MetricDashboardDuration:
		m.dashboardDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricTransactionAmount:
		if txType := tags["type"]; txType != "" {
			m.transactionAmount.WithLabelValues(txType).Observe(value)
		}
	}
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) IncrementCounter(string, map[string]string)     {}
func (NoopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
