package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFromExitCodeError(t *testing.T) {
	t.Parallel()
	err := fail(3, "validation failed: %s", "bad element")
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, "validation failed: bad element", err.Error())
}

func TestExitCodeFallsBackTo2ForPlainError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, exitCode(errors.New("boom")))
}

func TestExitCodeIsZeroForNilError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, exitCode(nil))
}

func TestExitCodeErrorUnwrapsUnderlyingError(t *testing.T) {
	t.Parallel()
	cause := errors.New("root cause")
	err := fail(1, "wrapping: %w", cause)
	assert.True(t, errors.Is(err, cause))
}
