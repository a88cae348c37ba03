// Demo client. Dials the demo server through the client metrics
// interceptors, performs one passing and one failing health check, and
// prints the locally collected exposition text.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/blkmlk/grpc-prometheus-layer/internal/logger"
	"github.com/blkmlk/grpc-prometheus-layer/internal/security"
	"github.com/blkmlk/grpc-prometheus-layer/metrics"
	"github.com/blkmlk/grpc-prometheus-layer/middleware"
)

func main() {

	logger.Init()
	cliLog := logger.Client

	addr := flag.String("addr", "localhost:5555", "server address")
	certFile := flag.String("cert", "", "client certificate (enables mTLS together with -key and -ca)")
	keyFile := flag.String("key", "", "client key")
	caFile := flag.String("ca", "", "server CA certificate")
	serverName := flag.String("server-name", "localhost", "expected TLS server name")
	flag.Parse()

	dialOpts := []grpc.DialOption{
		grpc.WithUnaryInterceptor(middleware.UnaryClientInterceptor()),
		grpc.WithStreamInterceptor(middleware.StreamClientInterceptor()),
	}

	if *certFile != "" {
		creds, err := security.NewMTLSClientCreds(*certFile, *keyFile, *caFile, *serverName)
		if err != nil {
			logger.Fatal(cliLog, "mTLS client credentials error: %v", err)
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(*addr, dialOpts...)
	if err != nil {
		logger.Fatal(cliLog, "Failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()

	client := grpc_health_v1.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// One passing check and one against an unregistered service, so both an
	// Ok and a NotFound outcome show up in the handled counters.
	if _, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "demo"}); err != nil {
		logger.Warn(cliLog, "Check(demo) failed: %v", err)
	}
	if _, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "missing"}); err != nil {
		logger.Info(cliLog, "Check(missing) failed as expected: %v", err)
	}

	text, err := metrics.EncodeToString()
	if err != nil {
		logger.Fatal(cliLog, "Failed to encode metrics: %v", err)
	}

	fmt.Print(text)
}
