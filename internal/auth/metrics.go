package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tokenRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "order_service",
	Subsystem: "auth",
	Name:      "token_requests_total",
	Help:      "Total number of requests to the identity provider token endpoint.",
}, []string{"grant", "result"})
