package middleware

import (
	"context"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/chirp-server/internal/logger"
)

// Recovery returns recovery options that log the panic with its stack and
// answer Internal without leaking the panic value.
func Recovery(logger *logger.Logger) []recovery.Option {
	return []recovery.Option{
		recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
			logger.Error("gRPC handler panicked", "panic", p, "stack", string(debug.Stack()))
			return status.Error(codes.Internal, "internal server error")
		}),
	}
}
