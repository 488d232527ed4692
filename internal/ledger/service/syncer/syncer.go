// Package syncer keeps a ledger store in step with a block source. Each pass
// resolves the stored tip, skips what is already persisted and writes the rest
// in atomic batches. Writes are idempotent upserts, so a failed pass is simply
// repeated from the tip it left behind.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// Config tunes batching and polling.
type Config struct {
	BatchSize       int
	FlushInterval   time.Duration
	WritesPerSecond int
	PollInterval    time.Duration
	// Once stops Run after the first clean pass.
	Once bool
	// Wake, when set, cuts the poll interval short as soon as it fires.
	Wake <-chan struct{}
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.WritesPerSecond <= 0 {
		c.WritesPerSecond = defaultWritesPerSecond
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	return c
}

type Service struct {
	logger    *zap.Logger
	store     Store
	source    Source
	metrics   Metrics
	cfg       Config
	sleep     func(context.Context, time.Duration) error
	newWriter func() BatchWriter
}

// NewService builds a Service with dependencies.
func NewService(store Store, source Source, metrics Metrics, logger *zap.Logger, cfg Config) (*Service, error) {
	if store == nil {
		return nil, errors.New("syncer store is required")
	}
	if source == nil {
		return nil, errors.New("syncer source is required")
	}
	if metrics == nil {
		return nil, errors.New("syncer metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg = cfg.withDefaults()
	s := &Service{
		logger:  logger,
		store:   store,
		source:  source,
		metrics: metrics,
		cfg:     cfg,
		sleep:   clock.SleepWithContext,
	}
	s.newWriter = func() BatchWriter {
		return newBatchWriter(store, metrics, logger.Named("batchWriter"), cfg)
	}
	return s, nil
}

// Run executes sync passes until the context is canceled, a pass fails with a
// non transient error, or, in Once mode, a pass completes.
func (s *Service) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.pass(ctx)
		if err == nil {
			attempt = 0
			if s.cfg.Once {
				return nil
			}
			if sleepErr := s.waitPoll(ctx); sleepErr != nil {
				return sleepErr
			}
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !model.Retryable(err) {
			s.logger.Error("sync pass failed", zap.Error(err))
			return err
		}

		wait := clock.Backoff(attempt, backoffBase, backoffLimit)
		attempt++
		s.logger.Warn("sync pass failed, backing off",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("sleep", wait),
		)
		if sleepErr := s.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
	}
}

func (s *Service) waitPoll(ctx context.Context) error {
	if s.cfg.Wake == nil {
		return s.sleep(ctx, s.cfg.PollInterval)
	}
	return clock.SleepOrWake(ctx, s.cfg.PollInterval, s.cfg.Wake)
}

func (s *Service) pass(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObservePass(err, started)
	}()

	tip, err := s.store.Tip(ctx)
	s.metrics.ObserveResolveTip(err, tip.Epoch, tip.Slot)
	if err != nil {
		return fmt.Errorf("resolve tip: %w", err)
	}
	s.logger.Info("resuming from tip", zap.Int64("epoch", tip.Epoch), zap.Int64("slot", tip.Slot))

	writer := s.newWriter()
	writer.Start(ctx)

	var (
		prev    *model.Block
		skipped int
		written int
	)
	streamErr := s.source.Stream(ctx, tip, func(bundle model.Bundle) error {
		block := bundle.Block
		if !tip.Before(block.Epoch, block.Slot) {
			skipped++
			prev = &block
			return nil
		}

		if link, ok := linkPredecessor(prev, block); ok {
			if err := writer.Write(ctx, model.Bundle{Block: link}); err != nil {
				return err
			}
		}
		if err := writer.Write(ctx, bundle); err != nil {
			return err
		}
		written++
		prev = &block
		return nil
	})
	stopErr := writer.Stop()

	if skipped > 0 {
		s.metrics.ObserveSkipped(skipped)
	}
	if streamErr != nil {
		return fmt.Errorf("stream bundles: %w", streamErr)
	}
	if stopErr != nil {
		return fmt.Errorf("flush batches: %w", stopErr)
	}

	s.logger.Info("sync pass finished", zap.Int("written", written), zap.Int("skipped", skipped))
	return nil
}

// linkPredecessor returns prev pointing at next when next extends prev and
// prev does not already point at it.
func linkPredecessor(prev *model.Block, next model.Block) (model.Block, bool) {
	if prev == nil || next.PrevHash != prev.Hash {
		return model.Block{}, false
	}
	if prev.NextHash != nil && *prev.NextHash == next.Hash {
		return model.Block{}, false
	}
	return prev.WithNextHash(next.Hash), true
}
