package listquery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "listquery",
			Name:      "queries_total",
			Help:      "List queries answered from a full collection fetch.",
		},
		[]string{"resource", "operation"},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "listquery",
			Name:      "fetch_failures_total",
			Help:      "Collection fetches that failed.",
		},
		[]string{"resource"},
	)

	recordsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "listquery",
			Name:      "records_scanned_total",
			Help:      "Records fetched and scanned in memory.",
		},
		[]string{"resource"},
	)
)
