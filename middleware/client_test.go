package middleware

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/blkmlk/grpc-prometheus-layer/metrics"
)

// dialHealthServer runs an in-process health service behind the server
// interceptors and returns a connection going through the client ones.
func dialHealthServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(StreamServerInterceptor()),
	)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("yes", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryClientInterceptor()),
		grpc.WithStreamInterceptor(StreamClientInterceptor()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestHealthCheckEndToEnd(t *testing.T) {
	conn := dialHealthServer(t)
	client := grpc_health_v1.NewHealthClient(conn)

	ctx := context.Background()

	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "yes"})
	require.NoError(t, err)
	require.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "unknown"})
	require.Error(t, err)
	require.Equal(t, codes.NotFound, status.Code(err))

	text, err := metrics.EncodeToString()
	require.NoError(t, err)

	// Both outcomes are visible on each side of the channel, one series per
	// status code, under the health service's identity labels.
	assert.Contains(t, text,
		`grpc_client_handled_total{grpc_code="Ok",grpc_method="Check",grpc_service="grpc.health.v1.Health"} 1`)
	assert.Contains(t, text,
		`grpc_client_handled_total{grpc_code="NotFound",grpc_method="Check",grpc_service="grpc.health.v1.Health"} 1`)
	assert.Contains(t, text,
		`grpc_server_handled_total{grpc_code="Ok",grpc_method="Check",grpc_service="grpc.health.v1.Health"} 1`)
	assert.Contains(t, text,
		`grpc_server_handled_total{grpc_code="NotFound",grpc_method="Check",grpc_service="grpc.health.v1.Health"} 1`)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		metrics.ClientStartedTotal().WithLabelValues("grpc.health.v1.Health", "Check")))
	assert.Equal(t, 2.0, testutil.ToFloat64(
		metrics.ServerStartedTotal().WithLabelValues("grpc.health.v1.Health", "Check")))
}

func TestStreamClientInterceptor_WatchLifecycle(t *testing.T) {
	conn := dialHealthServer(t)
	client := grpc_health_v1.NewHealthClient(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := client.Watch(ctx, &grpc_health_v1.HealthCheckRequest{Service: "yes"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.ClientStartedTotal().WithLabelValues("grpc.health.v1.Health", "Watch")))

	// A successful receive is not a terminal condition and must not count
	// the stream as handled.
	update, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, update.GetStatus())
	assert.Equal(t, 0.0, testutil.ToFloat64(
		metrics.ClientHandledTotal().WithLabelValues("grpc.health.v1.Health", "Watch", "Canceled")))

	cancel()

	_, err = stream.Recv()
	require.Error(t, err)
	require.Equal(t, codes.Canceled, status.Code(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.ClientHandledTotal().WithLabelValues("grpc.health.v1.Health", "Watch", "Canceled")))

	// Receiving again after termination stays a single handled observation.
	_, err = stream.Recv()
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.ClientHandledTotal().WithLabelValues("grpc.health.v1.Health", "Watch", "Canceled")))
}
