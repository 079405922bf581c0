// Package health reports process readiness over grpc.health.v1 based on the
// reachability of the backing store.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/chirp-server/internal/logger"
)

// ServiceName is the health service key of the public API.
const ServiceName = "chirp.v1.API"

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Checker periodically pings the store and flips the serving status.
type Checker struct {
	pinger   Pinger
	server   *health.Server
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker that starts NOT_SERVING until the first
// successful ping.
func NewChecker(pinger Pinger, server *health.Server, interval time.Duration, logger *logger.Logger) *Checker {
	server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Checker{
		pinger:   pinger,
		server:   server,
		interval: interval,
		logger:   logger,
	}
}

// Run checks once immediately and then every interval until ctx ends, at
// which point the server is shut down so watchers see NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check pings once and updates both the overall and the API status.
func (c *Checker) Check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, c.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.Ping(pingCtx); err != nil {
		c.logger.Warn("Health checker: store ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
}
