// Command ledger-api serves tip and address-history queries.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/replica"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/transport"
)

var config struct {
	Addr           string        `long:"addr" env:"LEDGER_API_ADDR" description:"gRPC addr" default:":8000"`
	RestAddr       string        `long:"rest-addr" env:"LEDGER_API_REST_ADDR" description:"rest addr" default:":8001"`
	Backend        string        `long:"backend" env:"LEDGER_API_BACKEND" description:"ledger store backend" choice:"postgres" choice:"clickhouse" default:"postgres"`
	PostgresDSN    string        `long:"postgres-dsn" env:"LEDGER_API_POSTGRES_DSN" description:"primary Postgres DSN, used for the tip"`
	ReplicaDSN     string        `long:"replica-dsn" env:"LEDGER_API_REPLICA_DSN" description:"read replica DSN for address history, defaults to the primary"`
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"LEDGER_API_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	RequestTimeout time.Duration `long:"request-timeout" env:"LEDGER_API_REQUEST_TIMEOUT" description:"per request store timeout" default:"10s"`
	HealthInterval time.Duration `long:"health-interval" env:"LEDGER_API_HEALTH_INTERVAL" description:"store ping interval" default:"15s"`
}

type stores struct {
	tips    transport.TipResolver
	reader  transport.HistoryReader
	pingers map[string]transport.Pinger
	close   func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	st, err := openStores(ctx)
	if err != nil {
		logger.Fatal("Open ledger stores", zap.Error(err))
	}
	defer st.close()

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	checker := transport.NewHealthChecker(healthServer, st.pingers, logger.Named("health"))
	go checker.Run(ctx, config.HealthInterval)

	socket, err := net.Listen("tcp", config.Addr)
	if err != nil {
		logger.Fatal("net.Listen error", zap.Error(err))
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Fatal("Start GRPC server", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	conn, err := grpc.NewClient(config.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Dial gRPC server", zap.Error(err))
	}
	defer func() {
		_ = conn.Close()
	}()

	handler := transport.NewLedgerHandler(st.tips, st.reader, metrics.NewHTTPHandler(), logger.Named("http"), config.RequestTimeout)
	gw, err := transport.NewGateway(handler, healthpb.NewHealthClient(conn))
	if err != nil {
		logger.Fatal("Register ledger handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              config.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}

func openStores(ctx context.Context) (stores, error) {
	if config.Backend == "clickhouse" {
		if config.ClickhouseDSN == "" {
			return stores{}, errors.New("clickhouse dsn is required")
		}
		repo, err := clickhouse.NewRepository(ctx, config.ClickhouseDSN, metrics.NewLedgerRepository("clickhouse"))
		if err != nil {
			return stores{}, fmt.Errorf("init clickhouse repository: %w", err)
		}
		return stores{
			tips:    repo,
			reader:  repo,
			pingers: map[string]transport.Pinger{"clickhouse": repo},
			close:   func() { _ = repo.Close() },
		}, nil
	}

	if config.PostgresDSN == "" {
		return stores{}, errors.New("postgres dsn is required")
	}
	replicaDSN := config.ReplicaDSN
	if replicaDSN == "" {
		replicaDSN = config.PostgresDSN
	}

	primary, err := postgres.NewRepository(ctx, config.PostgresDSN, metrics.NewLedgerRepository("postgres"))
	if err != nil {
		return stores{}, fmt.Errorf("init postgres repository: %w", err)
	}
	reader, err := replica.NewReader(ctx, replicaDSN, metrics.NewLedgerRepository("replica"))
	if err != nil {
		primary.Close()
		return stores{}, fmt.Errorf("init replica reader: %w", err)
	}
	return stores{
		tips:    primary,
		reader:  reader,
		pingers: map[string]transport.Pinger{"postgres": primary, "replica": reader},
		close: func() {
			_ = reader.Close()
			primary.Close()
		},
	}, nil
}
