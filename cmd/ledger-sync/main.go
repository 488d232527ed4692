// Command ledger-sync keeps a ledger store in step with scraper exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/service/syncer"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/source/ndjson"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
)

type config struct {
	Backend         string        `long:"backend" env:"LEDGER_SYNC_BACKEND" description:"ledger store backend" choice:"postgres" choice:"clickhouse" default:"postgres"`
	PostgresDSN     string        `long:"postgres-dsn" env:"LEDGER_SYNC_POSTGRES_DSN" description:"Postgres DSN"`
	ClickhouseDSN   string        `long:"clickhouse-dsn" env:"LEDGER_SYNC_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Source          string        `long:"source" env:"LEDGER_SYNC_SOURCE" description:"NDJSON export path, - for stdin (requires --once)" required:"true"`
	Once            bool          `long:"once" env:"LEDGER_SYNC_ONCE" description:"stop after one clean pass"`
	BatchSize       int           `long:"batch-size" env:"LEDGER_SYNC_BATCH_SIZE" description:"blocks per write batch" default:"500"`
	FlushInterval   time.Duration `long:"flush-interval" env:"LEDGER_SYNC_FLUSH_INTERVAL" description:"max delay before a partial batch is written" default:"2s"`
	WritesPerSecond int           `long:"writes-per-second" env:"LEDGER_SYNC_WRITES_PER_SECOND" description:"write batches per second" default:"20"`
	PollInterval    time.Duration `long:"poll-interval" env:"LEDGER_SYNC_POLL_INTERVAL" description:"delay between passes" default:"20s"`
	ZMQAddr         string        `long:"zmq-addr" env:"LEDGER_SYNC_ZMQ_ADDR" description:"ZMQ endpoint announcing new exports (zmq builds only)"`
	MetricsAddr     string        `long:"metrics-addr" env:"LEDGER_SYNC_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("ledger sync failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()

	source, err := ndjson.NewSource(cfg.Source, logger.Named("source"))
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}

	wake, err := startExportSignal(ctx, cfg.ZMQAddr, logger.Named("signal"))
	if err != nil {
		return fmt.Errorf("init export signal: %w", err)
	}

	svc, err := syncer.NewService(store, source, metrics.NewSyncer(), logger.Named("syncer"), syncer.Config{
		BatchSize:       cfg.BatchSize,
		FlushInterval:   cfg.FlushInterval,
		WritesPerSecond: cfg.WritesPerSecond,
		PollInterval:    cfg.PollInterval,
		Once:            cfg.Once,
		Wake:            wake,
	})
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func (c config) validate() error {
	if c.Source == "-" && !c.Once {
		return errors.New("stdin can be read only once, use --once with --source -")
	}
	return nil
}

func openStore(ctx context.Context, cfg config) (syncer.Store, func(), error) {
	switch cfg.Backend {
	case "clickhouse":
		if cfg.ClickhouseDSN == "" {
			return nil, nil, errors.New("clickhouse dsn is required")
		}
		repo, err := clickhouse.NewRepository(ctx, cfg.ClickhouseDSN, metrics.NewLedgerRepository("clickhouse"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("postgres dsn is required")
		}
		repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewLedgerRepository("postgres"))
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
