package agentry

import (
	"errors"
	"fmt"
)

// Sentinel errors for agentry. Use errors.Is to check.
var (
	ErrToolNotFound         = errors.New("tool not found")
	ErrValidation           = errors.New("validation failed")
	ErrNoPricing            = errors.New("no pricing information available")
	ErrInterceptorSignature = errors.New("invalid interceptor signature")
	ErrNilTransport         = errors.New("transport must not be nil")
	ErrNilHandler           = errors.New("tool handler must not be nil")
)

// ClientError is an error whose message should be sent back to the model for
// self-correction (e.g. invalid JSON input, schema validation failure).
// Do not put stack traces or internal details into Reason.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool input: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains.
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure (panic, marshal error).
// The model should not see the underlying error message.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures so the
// model sees a consistent, actionable message.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error()}
}

// panicError wraps a recovered panic value for SystemError.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
