package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/batcher"
)

// batchWriter collapses queued bundles into one model.Batch per flush, so
// every flush is a single atomic write.
type batchWriter struct {
	store   Store
	metrics Metrics
	logger  *zap.Logger
	batcher *batcher.Batcher[model.Bundle]
}

func newBatchWriter(store Store, metrics Metrics, logger *zap.Logger, cfg Config) *batchWriter {
	w := &batchWriter{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	w.batcher = batcher.New[model.Bundle](
		logger.Named("batcher"),
		w.flush,
		cfg.BatchSize,
		cfg.FlushInterval,
		cfg.WritesPerSecond,
	)
	return w
}

func (w *batchWriter) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

func (w *batchWriter) Stop() error {
	return w.batcher.Stop()
}

func (w *batchWriter) Write(ctx context.Context, bundle model.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.batcher.Add(ctx, bundle)
}

func (w *batchWriter) flush(ctx context.Context, bundles []model.Bundle) error {
	started := time.Now()
	batch := model.BatchOf(bundles)
	err := w.store.WriteBatch(ctx, batch)
	w.metrics.ObserveWriteBatch(err, len(batch.Blocks), started)
	if err != nil {
		return err
	}

	last := batch.Blocks[len(batch.Blocks)-1]
	w.logger.Debug("batch written",
		zap.Int("blocks", len(batch.Blocks)),
		zap.Int("transactions", len(batch.Transactions)),
		zap.Int64("epoch", last.Epoch),
		zap.Int64("slot", last.Slot),
	)
	return nil
}
