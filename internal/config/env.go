package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables recognized by rats. Each one overrides the
// corresponding file setting or CLI flag when present; this precedence is
// load-bearing for CI wrappers that tune a whole test-suite invocation
// without touching per-test arguments.
const (
	// EnvCanonicalDir overrides paths.canonical_dir.
	EnvCanonicalDir = "RATS_CANONICAL_DIR"
	// EnvRunConcurrent overrides the concurrency flag. An integer > 0 enables
	// concurrent execution with that many workers, an integer <= 0 forces
	// sequential execution, and "true"/"yes" enable concurrency with the
	// default worker count. Anything else means sequential.
	EnvRunConcurrent = "RATS_RUN_CONCURRENT"
	// EnvRenderThreads injects "-threads <n>" into the render command.
	EnvRenderThreads = "RATS_RENDER_THREADS"
)

// ResolveCanonicalDir returns the canonical root, preferring the environment
// over the explicit value.
func ResolveCanonicalDir(explicit string) string {
	if env := strings.TrimSpace(os.Getenv(EnvCanonicalDir)); env != "" {
		return env
	}
	return explicit
}

// ResolveConcurrency returns the effective (concurrent, workers) pair.
// workers == 0 means the implementation default (available parallelism).
func ResolveConcurrency(explicitConcurrent bool, explicitWorkers int) (bool, int) {
	env := strings.TrimSpace(os.Getenv(EnvRunConcurrent))
	if env == "" {
		return explicitConcurrent, explicitWorkers
	}
	if workers, err := strconv.Atoi(env); err == nil {
		if workers > 0 {
			return true, workers
		}
		return false, explicitWorkers
	}
	switch strings.ToLower(env) {
	case "true", "yes":
		return true, explicitWorkers
	default:
		return false, explicitWorkers
	}
}

// ResolveRenderThreads returns the effective render thread count. A valid
// positive integer in the environment overrides the explicit value; an
// unparseable value is reported as an error so callers can warn and keep the
// explicit setting.
func ResolveRenderThreads(explicit int) (int, error) {
	env := strings.TrimSpace(os.Getenv(EnvRenderThreads))
	if env == "" {
		return explicit, nil
	}
	threads, err := strconv.Atoi(env)
	if err != nil || threads <= 0 {
		return explicit, fmt.Errorf("%s=%q is not a positive integer", EnvRenderThreads, env)
	}
	return threads, nil
}
