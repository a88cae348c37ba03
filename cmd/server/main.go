// ===================================================================================
// gRPC PROMETHEUS LAYER – DEMO SERVER BOOTSTRAP
// ===================================================================================
//
// Composition root for the demo server. It contains no business logic; its
// sole responsibility is wiring together runtime components:
//
//   - Logging initialization
//   - Command-line configuration
//   - Metric settings installation (bucket boundaries)
//   - gRPC server bootstrap with the full interceptor chain
//   - Prometheus /metrics endpoint on a dedicated port
//   - Optional mutual TLS
//   - Graceful shutdown handling
//
// The served application is the standard gRPC health service, which is
// enough to exercise every instrument the layer emits.
//
// ===================================================================================

package main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/blkmlk/grpc-prometheus-layer/internal/config"
	"github.com/blkmlk/grpc-prometheus-layer/internal/logger"
	"github.com/blkmlk/grpc-prometheus-layer/internal/security"
	"github.com/blkmlk/grpc-prometheus-layer/metrics"
	"github.com/blkmlk/grpc-prometheus-layer/middleware"
)

func main() {

	logger.Init()
	logger.SetLevel(logger.INFO)

	srvLog := logger.Server
	logger.Info(srvLog, "Demo server starting")

	port := flag.String("port", "5555", "gRPC port")
	metricsPort := flag.String("metrics", "9090", "Prometheus metrics port")
	confPath := flag.String("conf", "", "optional buckets config file (BUCKETS=...)")
	certFile := flag.String("cert", "", "server certificate (enables mTLS together with -key and -ca)")
	keyFile := flag.String("key", "", "server key")
	caFile := flag.String("ca", "", "client CA certificate")
	flag.Parse()

	// Bucket boundaries are fixed for the life of the process, so they are
	// installed before the first instrument is created.
	if *confPath != "" {
		buckets, err := config.ReadBuckets(*confPath)
		if err != nil {
			logger.Fatal(srvLog, "Failed to read buckets config: %v", err)
		}
		if err := metrics.TryInitSettings(metrics.GlobalSettings{HistogramBuckets: buckets}); err != nil {
			logger.Fatal(srvLog, "Failed to install metric settings: %v", err)
		}
	}

	// The /metrics endpoint runs on its own port, decoupled from gRPC. The
	// handler itself goes through the HTTP-shaped middleware, so scrapes
	// show up in the function_calls_* series.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", middleware.HTTPMetrics(metrics.Handler()))

		addr := ":" + *metricsPort
		logger.Info(srvLog, "Metrics endpoint listening on %s", addr)

		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn(srvLog, "Metrics server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		logger.Warn(srvLog, "Shutdown signal received, terminating server process")
		os.Exit(0)
	}()

	startGRPC(*port, *certFile, *keyFile, *caFile)
}

func startGRPC(port, certFile, keyFile, caFile string) {
	srvLog := logger.Server

	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Fatal(srvLog, "Failed to listen on port %s: %v", port, err)
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(),
			middleware.RequestIDInterceptor(),
			middleware.LoggingInterceptor(),
			middleware.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			middleware.StreamServerInterceptor(),
		),
	}

	if certFile != "" {
		creds, err := security.NewMTLSServerCreds(certFile, keyFile, caFile)
		if err != nil {
			logger.Fatal(srvLog, "Failed to load mTLS credentials: %v", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("demo", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	logger.Info(srvLog, "gRPC server running on port %s", port)

	if err := grpcServer.Serve(listener); err != nil {
		logger.Fatal(srvLog, "gRPC server terminated: %v", err)
	}
}
