package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trac8",
	Subsystem: "devserver",
	Name:      "requests_total",
	Help:      "Requests served, by method, route template and status.",
}, []string{"method", "route", "status"})
