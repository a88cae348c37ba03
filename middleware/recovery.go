package middleware

import (
	"context"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/blkmlk/grpc-prometheus-layer/internal/logger"
)

// RecoveryInterceptor converts handler panics into codes.Internal errors so
// that a single bad request cannot take the server down. The panic value and
// stack are logged with the request's context.
//
// Chain it before the metrics interceptor so converted panics are still
// counted as handled calls.
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {

		defer func() {
			if r := recover(); r != nil {
				log := logger.WithContext(ctx, logger.Server)
				logger.Error(log, "PANIC recovered: %v | method=%s\n%s", r, info.FullMethod, string(debug.Stack()))

				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}
