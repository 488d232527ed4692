package transport

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported for the ledger.
const ServiceName = "explorer.ledger"

// HealthChecker mirrors store reachability into a gRPC health server.
type HealthChecker struct {
	server  *health.Server
	pingers map[string]Pinger
	logger  *zap.Logger
}

// NewHealthChecker returns a HealthChecker reporting into server. Keys of
// pingers name the checked stores in logs.
func NewHealthChecker(server *health.Server, pingers map[string]Pinger, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{server: server, pingers: pingers, logger: logger}
}

// Check pings every store once and updates the serving status.
func (c *HealthChecker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, p := range c.pingers {
		if err := p.Ping(ctx); err != nil {
			c.logger.Warn("store ping failed", zap.String("store", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks immediately and then every interval until ctx is done.
func (c *HealthChecker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		c.Check(checkCtx)
		cancel()

		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
