package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/blkmlk/grpc-prometheus-layer/internal/logger"
)

// RequestIDInterceptor assigns every incoming RPC a unique request id and
// stores it in the context, where the logging layer picks it up.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {

		reqID := uuid.New().String()
		ctx = context.WithValue(ctx, logger.RequestIDKey, reqID)

		return handler(ctx, req)
	}
}
