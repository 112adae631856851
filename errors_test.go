package agentry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientError(t *testing.T) {
	err := &ClientError{Reason: "bad enum value", Err: ErrValidation}
	assert.Contains(t, err.Error(), "bad enum value")
	assert.True(t, IsClientError(err))
	assert.False(t, IsSystemError(err))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientError_Wrapped(t *testing.T) {
	inner := &ClientError{Reason: "nope"}
	wrapped := fmt.Errorf("outer: %w", inner)
	assert.True(t, IsClientError(wrapped))
}

func TestSystemError_HidesInternals(t *testing.T) {
	inner := errors.New("password=hunter2 leaked in stack")
	err := &SystemError{Err: inner}
	assert.NotContains(t, err.Error(), "hunter2")
	assert.True(t, IsSystemError(err))
	assert.ErrorIs(t, err, inner)
}

func TestPanicError(t *testing.T) {
	err := &panicError{p: "oops"}
	assert.Equal(t, "panic: oops", err.Error())
}

func TestWrapJSONParseError(t *testing.T) {
	err := wrapJSONParseError(errors.New("unexpected end of input"))
	assert.True(t, IsClientError(err))
	assert.Contains(t, err.Error(), "json parse error")
}
