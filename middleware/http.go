package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/blkmlk/grpc-prometheus-layer/metrics"
)

// httpCallTracker is the HTTP-shaped counterpart of callTracker. It carries
// the coarser method/path label set of the original series and additionally
// maintains the in-flight gauge: up on first progress, down on completion.
type httpCallTracker struct {
	method string
	path   string

	mu        sync.Mutex
	state     trackerState
	startedAt time.Time
}

func (t *httpCallTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateNotStarted {
		return
	}
	t.state = stateInFlight
	t.startedAt = time.Now()

	metrics.HTTPCallsConcurrent().WithLabelValues(t.method, t.path).Inc()
}

func (t *httpCallTracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateInFlight {
		return
	}
	t.state = stateCompleted
	elapsed := time.Since(t.startedAt).Seconds()

	metrics.HTTPCallsTotal().WithLabelValues(t.method, t.path).Inc()
	metrics.HTTPCallDurationSeconds().WithLabelValues(t.method, t.path).Observe(elapsed)
	metrics.HTTPCallsConcurrent().WithLabelValues(t.method, t.path).Dec()
}

// HTTPMetrics wraps an http.Handler so that every request updates the
// backward-compatible function_calls_* series, labeled by HTTP method and
// request path. The wrapped handler's behavior is untouched; a panic still
// propagates, and in that case the call stays visible as in-flight.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker := &httpCallTracker{method: r.Method, path: r.URL.Path}
		tracker.start()

		next.ServeHTTP(w, r)

		tracker.done()
	})
}
