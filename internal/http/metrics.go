package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contas",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contas",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	billsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "bills_created_total",
		Help:      "Standalone bills created.",
	})

	seriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "installment_series_created_total",
		Help:      "Installment series created through the generator.",
	})

	installmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "installments_created_total",
		Help:      "Individual installment bills persisted.",
	})
)
