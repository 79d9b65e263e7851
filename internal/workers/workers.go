package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that fixes the worker count.
const EnvOverride = "DECODE_WORKERS"

// Count returns the number of workers for a task, scaled from GOMAXPROCS so
// container CPU limits are respected. multiplier is 1.0 for CPU-bound work
// and higher for work that waits on I/O. limit caps the result; 0 means no
// cap. A positive DECODE_WORKERS value replaces the computed count but is
// still capped by limit.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return capAt(count, limit)
		}
	}

	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	return capAt(n, limit)
}

// ForCPU returns the worker count for CPU-bound tasks such as image decoding.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
