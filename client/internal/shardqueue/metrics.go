package shardqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only written from the owning worker goroutine.
var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "command_queue",
			Name:      "submissions_total",
			Help:      "Commands accepted for execution.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "command_queue",
			Name:      "queue_full_total",
			Help:      "Submissions rejected because the shard stayed full.",
		},
		[]string{"shard"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trac8",
			Subsystem: "command_queue",
			Name:      "retries_total",
			Help:      "Command attempts retried after a recoverable failure.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trac8",
			Subsystem: "command_queue",
			Name:      "run_duration_seconds",
			Help:      "Latency of a single command attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "trac8",
			Subsystem: "command_queue",
			Name:      "queue_depth",
			Help:      "Commands waiting in each shard.",
		},
		[]string{"shard"},
	)
)

func labelFor(i int) string { return strconv.Itoa(i) }
