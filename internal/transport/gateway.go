package transport

import (
	"fmt"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGateway builds the REST mux: ledger routes plus /healthz backed by the
// gRPC health service.
func NewGateway(handler *LedgerHandler, healthClient healthpb.HealthClient) (*gwruntime.ServeMux, error) {
	mux := gwruntime.NewServeMux(gwruntime.WithHealthzEndpoint(healthClient))
	if err := handler.Register(mux); err != nil {
		return nil, fmt.Errorf("register ledger routes: %w", err)
	}
	return mux, nil
}
