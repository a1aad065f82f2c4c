// Package workers provides worker pool sizing and a bounded execution
// pool for CPU-heavy transformation work. Sizing respects container CPU
// limits via GOMAXPROCS (Go 1.19+) rather than runtime.NumCPU, which
// still reports the host machine's CPU count under cgroup constraints.
package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the optimal number of workers for a given task type.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//
// The limit parameter caps the worker count; use 0 for no limit.
// Can be overridden with the MEDIA_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	// Check for manual override first
	if override := os.Getenv("MEDIA_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	count := int(float64(available) * multiplier)
	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}
	return count
}

// ForCPU returns a worker count for CPU-intensive tasks such as video
// encoding and model inference: one worker per available CPU.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks: two workers per
// available CPU.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
