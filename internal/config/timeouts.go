package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Delay between operation status fetches
	Operation         time.Duration // Upper bound for one long-running operation, 0 means unbounded
	Request           time.Duration // Timeout for a single HTTP request
	RetryMaxAttempts  int           // Retries of a whole reconcile pass after a transient failure
	RetryInitialDelay time.Duration // Initial delay between reconcile retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - GKEPOOL_POLL_INTERVAL (default: 1s)
//   - GKEPOOL_TIMEOUT_OPERATION (default: 30m)
//   - GKEPOOL_TIMEOUT_REQUEST (default: 60s)
//   - GKEPOOL_RETRY_MAX_ATTEMPTS (default: 0)
//   - GKEPOOL_RETRY_INITIAL_DELAY (default: 5s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("GKEPOOL_POLL_INTERVAL", 1*time.Second),
		Operation:         parseDuration("GKEPOOL_TIMEOUT_OPERATION", 30*time.Minute),
		Request:           parseDuration("GKEPOOL_TIMEOUT_REQUEST", 60*time.Second),
		RetryMaxAttempts:  parseInt("GKEPOOL_RETRY_MAX_ATTEMPTS", 0),
		RetryInitialDelay: parseDuration("GKEPOOL_RETRY_INITIAL_DELAY", 5*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set, is negative or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a non-negative integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
