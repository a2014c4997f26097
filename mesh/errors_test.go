package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("socket reset")
	err := NewTransportError("failed to send", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to send")
}

func TestNewMaxHopsError(t *testing.T) {
	err := NewMaxHopsError()
	assert.ErrorIs(t, err, ErrMaxHopsExceeded)
	assert.Equal(t, ErrCodeMaxHops, err.Code)
}

func TestRecoverableTransportAndTimeout(t *testing.T) {
	assert.True(t, Recoverable(NewTransportError("x", nil)))
	assert.True(t, Recoverable(NewTimeoutError("x")))
}

func TestRecoverableParseFailureIsNot(t *testing.T) {
	assert.False(t, Recoverable(NewParseError(errors.New("bad bytes"))))
	assert.False(t, Recoverable(NewMaxHopsError()))
}

func TestRecoverableNilIsFalse(t *testing.T) {
	assert.False(t, Recoverable(nil))
}
