package handler

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	statusEventsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "status_events_processed_total",
			Help:      "Total number of successfully applied delivery status events",
		},
	)

	statusEventsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "status_events_failed_total",
			Help:      "Total number of failed status event processing attempts",
		},
	)

	statusEventsDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "status_events_dlq_total",
			Help:      "Total number of status events written to DLQ",
		},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)

	statusEventDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "status_event_processing_duration_seconds",
			Help:      "Histogram of status event processing durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	statusEventsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "order_service",
			Subsystem: "kafka_consumer",
			Name:      "status_events_in_progress",
			Help:      "Number of status events currently being processed",
		},
	)
)

var (
	orderRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "http",
			Name:      "order_requests_total",
			Help:      "Total number of order API requests by operation and status",
		},
		[]string{"op", "status"},
	)

	orderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "order_service",
			Subsystem: "http",
			Name:      "order_request_duration_seconds",
			Help:      "Histogram of order API request durations by operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		statusEventsProcessed,
		statusEventsFailed,
		statusEventsDLQ,
		commitErrors,
		statusEventDuration,
		statusEventsInProgress,

		orderRequestTotal,
		orderRequestDuration,
	)
}

func countRequest(op string, status int) {
	orderRequestTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

func observe(op string, start time.Time) {
	orderRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
