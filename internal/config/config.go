// Package config loads the histogram bucket configuration for the demo
// binaries from a plain-text file.
//
// Expected file format:
//
//	BUCKETS=<comma-separated ascending positive floats>
//
// Example:
//
//	BUCKETS=0.01,0.05,0.1,0.5,1.0,2.5,5.0,10.0
//
// The format is intentionally simple and validation is performed eagerly at
// startup to fail fast on misconfiguration. Configuration is assumed to be
// static for the lifetime of the process: bucket boundaries cannot change
// once the first histogram has been created.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadBuckets reads and parses histogram bucket boundaries from the given
// file path. The boundaries must be positive and strictly ascending.
func ReadBuckets(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	line := strings.TrimSpace(string(data))

	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid buckets config format, expected BUCKETS=<floats>")
	}

	key := strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])

	if key != "BUCKETS" {
		return nil, fmt.Errorf("invalid buckets config format, expected BUCKETS=<floats>")
	}

	var buckets []float64
	for _, field := range strings.Split(val, ",") {
		b, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("bucket %q must be a valid float", field)
		}
		if b <= 0 {
			return nil, fmt.Errorf("bucket %v must be greater than 0", b)
		}
		if len(buckets) > 0 && b <= buckets[len(buckets)-1] {
			return nil, fmt.Errorf("buckets must be strictly ascending, got %v after %v", b, buckets[len(buckets)-1])
		}
		buckets = append(buckets, b)
	}

	if len(buckets) == 0 {
		return nil, fmt.Errorf("buckets config must list at least one boundary")
	}

	return buckets, nil
}
