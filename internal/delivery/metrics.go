package delivery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "order_service",
	Subsystem: "delivery_client",
	Name:      "request_duration_seconds",
	Help:      "Delivery service call latencies in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op", "result"})
