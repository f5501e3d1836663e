// Package resilience bounds fallible external calls so a failure degrades
// only its own stage's output instead of aborting the overall response.
package resilience

import "log/slog"

// Call runs op and returns its value. On error it logs a diagnostic record
// under the given stage name and returns fallback instead. It never returns
// an error: failure is converted exactly once into the degraded value.
func Call[T any](stage string, fallback T, op func() (T, error)) T {
	value, err := op()
	if err != nil {
		slog.Warn("stage degraded", "stage", stage, "err", err)
		return fallback
	}
	return value
}

// Do runs an effect-only operation, logging and absorbing any error.
// It reports whether the operation succeeded.
func Do(stage string, op func() error) bool {
	if err := op(); err != nil {
		slog.Warn("stage degraded", "stage", stage, "err", err)
		return false
	}
	return true
}
