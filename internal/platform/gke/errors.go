package gke

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrOperationTimeout is returned when a long-running operation does not reach
// DONE before the caller's context or the configured operation timeout expires.
var ErrOperationTimeout = errors.New("timed out waiting for operation")

// TransportError reports an HTTP status the API contract does not allow for
// the request, e.g. a 500, or a 404 where absence was not acceptable.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	// Message is the API's own error message when the body carried one.
	Message string
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("bad response: %s %s returned %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// OperationError is a failure reported by the API inside an operation or
// resource payload (error.errors[].message).
type OperationError struct {
	Messages []string
}

func (e *OperationError) Error() string {
	return "operation failed: " + strings.Join(e.Messages, ", ")
}

// ConfigError is raised when a link template references a variable the
// resource does not declare. It always happens before any network I/O.
type ConfigError struct {
	Variable string
	Template string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing variable {{%s}} in %q", e.Variable, e.Template)
}

// UnrecognizedStateError is raised when an operation reports a status outside
// PENDING, RUNNING, DONE and ABORTING.
type UnrecognizedStateError struct {
	Operation string
	Status    string
}

func (e *UnrecognizedStateError) Error() string {
	return fmt.Sprintf("invalid result %q on operation %q", e.Status, e.Operation)
}

// IsNotFound checks if an error is a transport error for a missing resource.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}

// IsTransportError checks if an error is an unexpected HTTP response.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsOperationError checks if an error was reported by the API in a payload.
func IsOperationError(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}

// IsConfigError checks if an error is a missing template variable.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsUnrecognizedState checks if an error is an unknown operation status.
func IsUnrecognizedState(err error) bool {
	var ue *UnrecognizedStateError
	return errors.As(err, &ue)
}
