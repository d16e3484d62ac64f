package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readerCommandsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8_client",
			Name:      "reader_commands_enqueued_total",
			Help:      "Reader commands accepted into the command queue.",
		},
		[]string{"command"},
	)

	readerCommandsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trac8_client",
			Name:      "reader_commands_failed_total",
			Help:      "Queued reader commands that gave up after retries.",
		},
	)
)
