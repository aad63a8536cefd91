package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transfer Authorization Metrics
	TransferAuthorizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerwallet",
			Subsystem: "transfer",
			Name:      "authorizations_total",
			Help:      "Total transfer authorization attempts, labeled by outcome.",
		},
		[]string{"outcome"}, // outcome: submitted, insufficient_funds, invalid_amount
	)

	TransferAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ledgerwallet",
			Subsystem: "transfer",
			Name:      "submitted_amount",
			Help:      "Distribution of submitted transfer amounts.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		},
	)

	MinerNotifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ledgerwallet",
			Subsystem: "transfer",
			Name:      "miner_notifications_total",
			Help:      "Total advisory notices emitted for transactions queued by miner identities.",
		},
	)

	// Mempool Metrics
	MempoolAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ledgerwallet",
			Subsystem: "mempool",
			Name:      "accepted_total",
			Help:      "Total transactions accepted into the pending pool.",
		},
	)

	MempoolRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerwallet",
			Subsystem: "mempool",
			Name:      "rejected_total",
			Help:      "Total transactions rejected by the pending pool, labeled by reason.",
		},
		[]string{"reason"}, // reason: unsigned, bad_signature, duplicate, full
	)

	MempoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ledgerwallet",
			Subsystem: "mempool",
			Name:      "pending_count",
			Help:      "Current number of transactions in the pending pool.",
		},
	)

	// Event Stream Metrics
	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ledgerwallet",
			Subsystem: "events",
			Name:      "subscribers_count",
			Help:      "Current number of event stream subscribers.",
		},
	)
)
