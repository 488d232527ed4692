// Package transport exposes the ledger over HTTP and gRPC.
package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// HistoryReader answers address-history queries.
type HistoryReader interface {
	SentDistinctCount(ctx context.Context, address string) (uint64, error)
	ReceivedDistinctCount(ctx context.Context, address string) (uint64, error)
	SentRecords(ctx context.Context, address string) ([]model.InputRecord, error)
	ReceivedRecords(ctx context.Context, address string) ([]model.OutputRecord, error)
	AllRecords(ctx context.Context, address string) ([]model.Transaction, error)
}

// TipResolver reports the resumption point of the ledger.
type TipResolver interface {
	Tip(ctx context.Context) (model.Tip, error)
}

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Metrics captures served HTTP requests.
type Metrics interface {
	Observe(route string, code int, started time.Time)
}
