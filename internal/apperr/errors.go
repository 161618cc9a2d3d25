package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinels for the error categories the HTTP layer maps to status codes.
var (
	ErrGateway    = errors.New("upstream gateway failure")
	ErrStore      = errors.New("store failure")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// GatewayError wraps a failed upstream call. Upstream holds the raw response
// body when the transport succeeded but the application-level code was not
// a success, so handlers can echo it back as api_response.
type GatewayError struct {
	Op       string
	Err      error
	Upstream json.RawMessage
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s: upstream reported failure", e.Op)
}

func (e *GatewayError) Unwrap() error { return ErrGateway }

// Gateway builds a GatewayError for a transport-level failure.
func Gateway(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

// GatewayUpstream builds a GatewayError for a call that succeeded at the
// transport level but carried a non-success application code.
func GatewayUpstream(op string, body json.RawMessage) error {
	return &GatewayError{Op: op, Upstream: body}
}

// Store wraps a persistence failure.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// NotFound reports a missing entity by description.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Validation reports a malformed request.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
