package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/blkmlk/grpc-prometheus-layer/internal/logger"
)

// LoggingInterceptor logs the start and completion of every unary RPC,
// including its duration and error, correlated by the request id carried
// in the context.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {

		start := time.Now()

		log := logger.WithContext(ctx, logger.Server)
		logger.Info(log, "gRPC started: %s", info.FullMethod)

		resp, err := handler(ctx, req)

		dur := time.Since(start)
		if err != nil {
			logger.Error(log, "gRPC failed: %s | duration=%v | err=%v", info.FullMethod, dur, err)
		} else {
			logger.Info(log, "gRPC finished: %s | duration=%v", info.FullMethod, dur)
		}

		return resp, err
	}
}
