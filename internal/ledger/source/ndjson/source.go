// Package ndjson reads scraper exports with one block bundle per line.
package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

const maxLineSize = 64 << 20

// ErrSourceConsumed is returned when a single-use source is streamed again.
// Nothing can be replayed, so the caller must not treat it as transient.
var ErrSourceConsumed = errors.New("export source already consumed")

// Source streams bundles from an export file. Path "-" reads standard input,
// which can only be consumed by a single pass.
type Source struct {
	path     string
	open     func() (io.ReadCloser, error)
	logger   *zap.Logger
	single   bool
	consumed atomic.Bool
}

func NewSource(path string, logger *zap.Logger) (*Source, error) {
	if path == "" {
		return nil, errors.New("ndjson source path is required")
	}

	open := func() (io.ReadCloser, error) { return os.Open(path) }
	if path == "-" {
		open = func() (io.ReadCloser, error) { return io.NopCloser(os.Stdin), nil }
	}
	return &Source{path: path, open: open, logger: logger, single: path == "-"}, nil
}

// Replayable reports whether Stream can be called more than once.
func (s *Source) Replayable() bool {
	return !s.single
}

// Stream decodes the export in order and calls fn for every bundle. Lines
// that sort at or below from are still delivered so the caller can link the
// first new block to its stored predecessor.
func (s *Source) Stream(ctx context.Context, from model.Tip, fn func(model.Bundle) error) (err error) {
	if s.single && !s.consumed.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", s.path, ErrSourceConsumed)
	}

	r, err := s.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", s.path, closeErr)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineSize)

	line := 0
	delivered := 0
	for scanner.Scan() {
		line++
		if err = ctx.Err(); err != nil {
			return err
		}

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var src BlockLine
		if err = json.Unmarshal(raw, &src); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidLine, line, err)
		}
		var bundle model.Bundle
		if bundle, err = BuildBundle(src); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err = fn(bundle); err != nil {
			return err
		}
		delivered++
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	s.logger.Debug("export read",
		zap.String("path", s.path),
		zap.Int("lines", line),
		zap.Int("bundles", delivered),
		zap.Int64("from_epoch", from.Epoch),
		zap.Int64("from_slot", from.Slot),
	)
	return nil
}
