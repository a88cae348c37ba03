package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
)

// trackerState is the lifecycle position of a single tracked call.
type trackerState int

const (
	stateNotStarted trackerState = iota
	stateInFlight
	stateCompleted
)

// callTracker follows one RPC from first progress to completion and emits
// the "started" and "handled" observations exactly once each.
//
// The label set is captured at construction and never recomputed. A tracker
// that is created but never started emits nothing; a tracker that is started
// but abandoned before completion emits "started" without a matching
// "handled", which is the intended signal for stuck or cancelled work.
type callTracker struct {
	service string
	method  string

	started *prometheus.CounterVec   // {grpc_service, grpc_method}
	handled *prometheus.CounterVec   // {grpc_service, grpc_method, grpc_code}
	latency *prometheus.HistogramVec // {grpc_service, grpc_method, grpc_code}

	mu        sync.Mutex
	state     trackerState
	startedAt time.Time
}

func newCallTracker(
	service, method string,
	started, handled *prometheus.CounterVec,
	latency *prometheus.HistogramVec,
) *callTracker {
	return &callTracker{
		service: service,
		method:  method,
		started: started,
		handled: handled,
		latency: latency,
	}
}

// start moves the tracker from NotStarted to InFlight. The first call
// increments the started counter and fixes the start instant; later calls
// are no-ops.
func (t *callTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateNotStarted {
		return
	}
	t.state = stateInFlight
	t.startedAt = time.Now()

	t.started.WithLabelValues(t.service, t.method).Inc()
}

// done moves the tracker from InFlight to Completed. Only the first call on
// an in-flight tracker has any effect: it increments the handled counter and
// records the elapsed time, measured from the start instant, under the
// classified outcome label.
func (t *callTracker) done(code codes.Code) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateInFlight {
		return
	}
	t.state = stateCompleted
	elapsed := time.Since(t.startedAt).Seconds()

	label := codeLabel(code)
	t.handled.WithLabelValues(t.service, t.method, label).Inc()
	t.latency.WithLabelValues(t.service, t.method, label).Observe(elapsed)
}
