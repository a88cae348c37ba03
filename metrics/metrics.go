// ===================================================================================
// gRPC PROMETHEUS LAYER – INSTRUMENT REGISTRY
// ===================================================================================
//
// This file owns every named Prometheus instrument the layer emits into.
//
// Instruments are created lazily, on first use, so that a process which only
// runs the server interceptors never registers client or HTTP series. Each
// group is guarded by a sync.Once: concurrent first use from many in-flight
// calls performs exactly one registration, and every caller receives the same
// underlying vector.
//
// Names and label schemas are an external contract (dashboards key off them):
//
//   - grpc_server_started_total   {grpc_service, grpc_method}
//   - grpc_server_handled_total   {grpc_service, grpc_method, grpc_code}
//   - grpc_server_handling_seconds{grpc_service, grpc_method, grpc_code}
//   - grpc_client_started_total   {grpc_service, grpc_method}
//   - grpc_client_handled_total   {grpc_service, grpc_method, grpc_code}
//   - grpc_client_handling_seconds{grpc_service, grpc_method, grpc_code}
//
// plus the original coarser HTTP-shaped series, kept for backward
// compatibility:
//
//   - function_calls_total            {method, path}
//   - function_calls_duration_seconds {method, path}
//   - function_calls_concurrent       {method, path}
//
// A name collision with an incompatible registration in the backing registry
// is a programming error and panics at first use.
//
// ===================================================================================

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	serverStartedName  = "grpc_server_started_total"
	serverHandledName  = "grpc_server_handled_total"
	serverHandlingName = "grpc_server_handling_seconds"

	clientStartedName  = "grpc_client_started_total"
	clientHandledName  = "grpc_client_handled_total"
	clientHandlingName = "grpc_client_handling_seconds"

	httpCallsName      = "function_calls_total"
	httpDurationName   = "function_calls_duration_seconds"
	httpConcurrentName = "function_calls_concurrent"
)

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	getSettings().Registry.MustRegister(c)
	return c
}

func newHistogramVec(name, help string, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: getSettings().HistogramBuckets,
		},
		labels,
	)
	getSettings().Registry.MustRegister(h)
	return h
}

func newGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	getSettings().Registry.MustRegister(g)
	return g
}

// --- SERVER INSTRUMENTS ---

var (
	serverOnce     sync.Once
	serverStarted  *prometheus.CounterVec
	serverHandled  *prometheus.CounterVec
	serverHandling *prometheus.HistogramVec
)

func initServer() {
	serverOnce.Do(func() {
		serverStarted = newCounterVec(
			serverStartedName,
			"Total number of RPCs started on the server.",
			[]string{"grpc_service", "grpc_method"},
		)
		serverHandled = newCounterVec(
			serverHandledName,
			"Total number of RPCs completed on the server, regardless of success or failure.",
			[]string{"grpc_service", "grpc_method", "grpc_code"},
		)
		serverHandling = newHistogramVec(
			serverHandlingName,
			"Histogram of response latency (seconds) of RPCs handled by the server.",
			[]string{"grpc_service", "grpc_method", "grpc_code"},
		)
	})
}

// ServerStartedTotal counts RPCs started on the server.
func ServerStartedTotal() *prometheus.CounterVec {
	initServer()
	return serverStarted
}

// ServerHandledTotal counts RPCs completed on the server.
func ServerHandledTotal() *prometheus.CounterVec {
	initServer()
	return serverHandled
}

// ServerHandlingSeconds tracks server-side RPC latency.
func ServerHandlingSeconds() *prometheus.HistogramVec {
	initServer()
	return serverHandling
}

// --- CLIENT INSTRUMENTS ---

var (
	clientOnce     sync.Once
	clientStarted  *prometheus.CounterVec
	clientHandled  *prometheus.CounterVec
	clientHandling *prometheus.HistogramVec
)

func initClient() {
	clientOnce.Do(func() {
		clientStarted = newCounterVec(
			clientStartedName,
			"Total number of RPCs started by the client.",
			[]string{"grpc_service", "grpc_method"},
		)
		clientHandled = newCounterVec(
			clientHandledName,
			"Total number of RPCs completed by the client, regardless of success or failure.",
			[]string{"grpc_service", "grpc_method", "grpc_code"},
		)
		clientHandling = newHistogramVec(
			clientHandlingName,
			"Histogram of response latency (seconds) of RPCs observed by the client.",
			[]string{"grpc_service", "grpc_method", "grpc_code"},
		)
	})
}

// ClientStartedTotal counts RPCs started by the client.
func ClientStartedTotal() *prometheus.CounterVec {
	initClient()
	return clientStarted
}

// ClientHandledTotal counts RPCs completed by the client.
func ClientHandledTotal() *prometheus.CounterVec {
	initClient()
	return clientHandled
}

// ClientHandlingSeconds tracks client-observed RPC latency.
func ClientHandlingSeconds() *prometheus.HistogramVec {
	initClient()
	return clientHandling
}

// --- HTTP-SHAPED INSTRUMENTS (backward compatibility) ---

var (
	httpOnce       sync.Once
	httpCalls      *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpConcurrent *prometheus.GaugeVec
)

func initHTTP() {
	httpOnce.Do(func() {
		httpCalls = newCounterVec(
			httpCallsName,
			"Total number of calls completed, labeled by HTTP method and path.",
			[]string{"method", "path"},
		)
		httpDuration = newHistogramVec(
			httpDurationName,
			"Histogram of call duration, labeled by HTTP method and path.",
			[]string{"method", "path"},
		)
		httpConcurrent = newGaugeVec(
			httpConcurrentName,
			"Number of calls currently in flight, labeled by HTTP method and path.",
			[]string{"method", "path"},
		)
	})
}

// HTTPCallsTotal counts completed calls by HTTP method and path.
func HTTPCallsTotal() *prometheus.CounterVec {
	initHTTP()
	return httpCalls
}

// HTTPCallDurationSeconds tracks call duration by HTTP method and path.
func HTTPCallDurationSeconds() *prometheus.HistogramVec {
	initHTTP()
	return httpDuration
}

// HTTPCallsConcurrent gauges in-flight calls by HTTP method and path.
func HTTPCallsConcurrent() *prometheus.GaugeVec {
	initHTTP()
	return httpConcurrent
}
