// Package retry reruns a failed operation with growing delays.
//
// The agent uses [Do] to rerun a whole reconciliation pass when
// GKEPOOL_RETRY_MAX_ATTEMPTS is set. Errors wrapped with [Permanent] end the
// loop at once.
package retry
