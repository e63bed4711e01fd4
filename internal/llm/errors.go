// internal/llm/errors.go
package llm

import "fmt"

// FailureKind classifies gateway failures so callers can tell the
// potentially-retryable transport conditions apart from HTTP errors that
// will not improve without changing the request.
type FailureKind int

const (
	// FailureTimeout means the request exceeded its deadline.
	FailureTimeout FailureKind = iota
	// FailureTransport means the connection could not be established or was
	// reset (refused, DNS, broken pipe).
	FailureTransport
	// FailureUpstream means the generation service answered with a non-2xx
	// status.
	FailureUpstream
	// FailureUnexpected covers everything else, including malformed response
	// bodies.
	FailureUnexpected
)

// String returns the wire-stable label for a failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "llm_upstream_timeout"
	case FailureTransport:
		return "llm_connection_error"
	case FailureUpstream:
		return "llm_http_error"
	default:
		return "llm_service_error"
	}
}

// GatewayError is the typed failure surfaced by every Client call.
type GatewayError struct {
	Kind   FailureKind
	Op     string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s returned status %d", e.Kind, e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

// Unwrap exposes the underlying cause for errors.Is chains.
func (e *GatewayError) Unwrap() error { return e.Err }

// Retryable reports whether a fresh attempt could plausibly succeed without
// changing the request.
func (e *GatewayError) Retryable() bool {
	return e.Kind == FailureTimeout || e.Kind == FailureTransport
}
