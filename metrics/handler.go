package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler that serves the configured registry in
// the Prometheus exposition format. Mount it on a dedicated port, away
// from the gRPC listener:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", metrics.Handler())
func Handler() http.Handler {
	return promhttp.HandlerFor(
		getSettings().Registry,
		promhttp.HandlerOpts{},
	)
}
