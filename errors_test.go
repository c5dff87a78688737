package conductor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeError(t *testing.T) {
	underlying := errors.New("config file not found")
	err := NewRuntimeError(underlying)

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "runtime error")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsRuntimeError(wrapped))
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("2 failed, 1 errored of 10 tests")

	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "test failure")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsTestFailureError(wrapped))
}

func TestInterruptedError(t *testing.T) {
	err := &InterruptedError{}

	assert.True(t, IsInterruptedError(err))
	assert.False(t, IsRuntimeError(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsInterruptedError(wrapped))
}

func TestIsHelpersNilError(t *testing.T) {
	require.False(t, IsRuntimeError(nil))
	require.False(t, IsTestFailureError(nil))
	require.False(t, IsInterruptedError(nil))
}
