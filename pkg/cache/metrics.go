package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	driverLRU   = "lru"
	driverRedis = "redis"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of order cache hits.",
	}, []string{"driver"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of order cache misses.",
	}, []string{"driver"})
)
