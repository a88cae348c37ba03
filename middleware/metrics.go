// ===================================================================================
// gRPC PROMETHEUS LAYER – SERVER METRICS INTERCEPTORS
// ===================================================================================
//
// This file implements the server-side interception entry points that feed
// the grpc_server_* instruments.
//
// From an observability perspective, these interceptors:
//
//   - Count RPCs started and completed, by service and method
//   - Classify every completion under a grpc_code label
//   - Measure end-to-end handling latency for SLI / SLO analysis
//   - Integrate transparently via the gRPC middleware chain
//
// The interceptors hold no per-call state of their own. Each incoming RPC
// gets its own lifecycle tracker, which owns the label set and guarantees
// the started/handled observations fire exactly once each.
//
// These interceptors are intentionally passive: they never affect request
// flow, error handling, or the call's observable result.
//
// ===================================================================================

package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/blkmlk/grpc-prometheus-layer/metrics"
)

func newServerTracker(fullMethod string) *callTracker {
	service, method := splitFullMethod(fullMethod)
	return newCallTracker(
		service, method,
		metrics.ServerStartedTotal(),
		metrics.ServerHandledTotal(),
		metrics.ServerHandlingSeconds(),
	)
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that records
// volume, outcome and latency metrics for every unary RPC.
//
// Place it after recovery logic so that converted panics are observed with
// their final status code.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {

		tracker := newServerTracker(info.FullMethod)
		tracker.start()

		resp, err := handler(ctx, req)

		tracker.done(status.Code(err))
		return resp, err
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that records
// volume, outcome and latency metrics for every streaming RPC. The call
// counts as handled when the handler returns, regardless of how many
// messages were exchanged.
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {

		tracker := newServerTracker(info.FullMethod)
		tracker.start()

		err := handler(srv, ss)

		tracker.done(status.Code(err))
		return err
	}
}
