package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncerResolveTipTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "resolve_tip_total",
		Help:      "Count of tip resolutions at the start of a sync pass.",
	}, []string{"status"})

	syncerPassTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "pass_total",
		Help:      "Count of sync passes.",
	}, []string{"status"})

	syncerPassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "pass_duration_seconds",
		Help:      "Duration of a sync pass.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
	}, []string{"status"})

	syncerWriteBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "write_batch_total",
		Help:      "Count of atomic batch writes.",
	}, []string{"status"})

	syncerWriteBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "write_batch_duration_seconds",
		Help:      "Duration of atomic batch writes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	syncerWriteBatchBlocks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "write_batch_blocks",
		Help:      "Number of blocks per atomic batch write.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	syncerBlocksSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "blocks_skipped_total",
		Help:      "Count of source blocks at or below the stored tip.",
	})

	syncerTipSlot = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "tip",
		Help:      "Last resolved tip coordinates.",
	}, []string{"coordinate"})
)

// Syncer tracks metrics for the ledger sync loop.
type Syncer struct{}

// NewSyncer constructs a Syncer metrics collector.
func NewSyncer() *Syncer {
	return &Syncer{}
}

// ObserveResolveTip records a tip lookup and, on success, exports its coordinates.
func (m Syncer) ObserveResolveTip(err error, epoch, slot int64) {
	syncerResolveTipTotal.WithLabelValues(statusOf(err)).Inc()
	if err != nil {
		return
	}
	syncerTipSlot.WithLabelValues("epoch").Set(float64(epoch))
	syncerTipSlot.WithLabelValues("slot").Set(float64(slot))
}

// ObservePass records the outcome and duration of a sync pass.
func (m Syncer) ObservePass(err error, started time.Time) {
	status := statusOf(err)
	syncerPassTotal.WithLabelValues(status).Inc()
	syncerPassDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveWriteBatch records an atomic batch write.
func (m Syncer) ObserveWriteBatch(err error, blocks int, started time.Time) {
	status := statusOf(err)
	syncerWriteBatchTotal.WithLabelValues(status).Inc()
	syncerWriteBatchDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		syncerWriteBatchBlocks.Observe(float64(blocks))
	}
}

// ObserveSkipped counts blocks skipped because they are already stored.
func (m Syncer) ObserveSkipped(blocks int) {
	syncerBlocksSkippedTotal.Add(float64(blocks))
}
