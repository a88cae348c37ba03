package middleware

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/blkmlk/grpc-prometheus-layer/metrics"
)

func newClientTracker(fullMethod string) *callTracker {
	service, method := splitFullMethod(fullMethod)
	return newCallTracker(
		service, method,
		metrics.ClientStartedTotal(),
		metrics.ClientHandledTotal(),
		metrics.ClientHandlingSeconds(),
	)
}

// UnaryClientInterceptor returns a grpc.UnaryClientInterceptor that records
// volume, outcome and latency metrics for every unary RPC sent over the
// channel, keyed by service and method with the result status code.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		fullMethod string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {

		tracker := newClientTracker(fullMethod)
		tracker.start()

		err := invoker(ctx, fullMethod, req, reply, cc, opts...)

		tracker.done(status.Code(err))
		return err
	}
}

// StreamClientInterceptor returns a grpc.StreamClientInterceptor that tracks
// streaming RPCs from creation to their terminal receive.
//
// The stream counts as handled when RecvMsg reports a terminal condition:
// io.EOF maps to Ok, any other error to its status code. Successful
// intermediate receives carry no side effect, so long-lived streams show up
// in the gap between started and handled counts until they finish.
func StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		fullMethod string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {

		tracker := newClientTracker(fullMethod)
		tracker.start()

		cs, err := streamer(ctx, desc, cc, fullMethod, opts...)
		if err != nil {
			tracker.done(status.Code(err))
			return nil, err
		}

		return &trackedClientStream{ClientStream: cs, tracker: tracker}, nil
	}
}

// trackedClientStream completes its tracker when the wrapped stream
// terminates. The tracker ignores repeated completions, so a CloseSend
// followed by a failed RecvMsg still yields a single handled observation.
type trackedClientStream struct {
	grpc.ClientStream
	tracker *callTracker
}

func (s *trackedClientStream) RecvMsg(m interface{}) error {
	err := s.ClientStream.RecvMsg(m)
	switch {
	case errors.Is(err, io.EOF):
		s.tracker.done(codes.OK)
	case err != nil:
		s.tracker.done(status.Code(err))
	}
	return err
}
