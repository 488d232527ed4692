package syncer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store is the write side of a ledger backend.
	Store interface {
		Tip(ctx context.Context) (model.Tip, error)
		WriteBatch(ctx context.Context, batch model.Batch) error
	}

	// Source produces bundles in chain order. from is the stored tip; a
	// source may use it to seek, the syncer filters regardless.
	Source interface {
		Stream(ctx context.Context, from model.Tip, fn func(model.Bundle) error) error
	}

	BatchWriter interface {
		Start(ctx context.Context)
		Stop() error
		Write(ctx context.Context, bundle model.Bundle) error
	}

	Metrics interface {
		ObserveResolveTip(err error, epoch, slot int64)
		ObservePass(err error, started time.Time)
		ObserveWriteBatch(err error, blocks int, started time.Time)
		ObserveSkipped(blocks int)
	}
)
