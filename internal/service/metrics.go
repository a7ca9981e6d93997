package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sagaCreate = "create"
	sagaDelete = "delete"
)

var sagaOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "order_service",
	Subsystem: "saga",
	Name:      "outcomes_total",
	Help:      "Saga completions by saga and outcome.",
}, []string{"saga", "outcome"})
