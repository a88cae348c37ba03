package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrAlreadyInitialized is returned by TryInitSettings when the global
// settings have already been materialized, either by an earlier call or
// lazily by first instrument use.
var ErrAlreadyInitialized = errors.New("metrics: settings already initialized")

// DefaultHistogramBuckets is the latency bucket ladder used when no
// explicit boundaries are configured. It covers sub-10ms handlers up to
// 10 second outliers.
var DefaultHistogramBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0,
}

// GlobalSettings carries the process-wide metric configuration. Zero-value
// fields are filled with defaults when the settings are installed.
type GlobalSettings struct {
	// Registry receives every instrument created by this package.
	Registry *prometheus.Registry

	// HistogramBuckets are the upper bounds, ascending, applied to every
	// latency histogram created after installation.
	HistogramBuckets []float64
}

var (
	settingsMu sync.Mutex
	settings   *GlobalSettings
)

// TryInitSettings installs the global settings. It must be called before
// any interceptor or handler touches an instrument; afterwards the bucket
// boundaries are fixed for the life of the process.
//
// Calling it twice returns ErrAlreadyInitialized and leaves the first
// configuration in effect. Skipping it entirely is fine: defaults are
// materialized on first use.
func TryInitSettings(s GlobalSettings) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	if settings != nil {
		return ErrAlreadyInitialized
	}

	if s.Registry == nil {
		s.Registry = prometheus.NewRegistry()
	}
	if len(s.HistogramBuckets) == 0 {
		s.HistogramBuckets = DefaultHistogramBuckets
	}

	settings = &s
	return nil
}

// getSettings returns the global settings, materializing the defaults if
// nothing was installed explicitly. Settings are never mutated after the
// first read.
func getSettings() *GlobalSettings {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	if settings == nil {
		settings = &GlobalSettings{
			Registry:         prometheus.NewRegistry(),
			HistogramBuckets: DefaultHistogramBuckets,
		}
	}

	return settings
}
