package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "explorer_ledger"

var (
	ledgerRepositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Count of ledger repository operations.",
	}, []string{"backend", "operation", "status"})
	ledgerRepositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"backend", "operation", "status"})
)

// LedgerRepository tracks metrics for one ledger storage backend.
type LedgerRepository struct {
	backend string
}

// NewLedgerRepository creates a LedgerRepository metrics collector for the named backend.
func NewLedgerRepository(backend string) *LedgerRepository {
	if backend == "" {
		backend = "unknown"
	}
	return &LedgerRepository{backend: backend}
}

// Observe records duration and status of a repository operation.
func (m LedgerRepository) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	ledgerRepositoryOperationsTotal.WithLabelValues(m.backend, operation, status).Inc()
	ledgerRepositoryOperationDuration.WithLabelValues(m.backend, operation, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
