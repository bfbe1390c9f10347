package tutor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Run("with status", func(t *testing.T) {
		err := &ServiceError{Status: 500, Message: "internal error"}
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "internal error")
	})

	t.Run("without status", func(t *testing.T) {
		err := &ServiceError{Message: "connection refused"}
		assert.Contains(t, err.Error(), "connection refused")
		assert.NotContains(t, err.Error(), "status")
	})
}

func TestRunFailedError(t *testing.T) {
	err := &RunFailedError{Code: "rate_limit_exceeded", Detail: "try later"}

	assert.Contains(t, err.Error(), "rate_limit_exceeded")
	assert.Contains(t, err.Error(), "try later")

	t.Run("distinguishable via errors.As", func(t *testing.T) {
		wrapped := fmt.Errorf("turn failed: %w", err)

		var runErr *RunFailedError
		assert.True(t, errors.As(wrapped, &runErr))
		assert.Equal(t, "try later", runErr.Detail)
	})
}

func TestIsNotFound(t *testing.T) {
	t.Run("404 status", func(t *testing.T) {
		assert.True(t, IsNotFound(&ServiceError{Status: 404, Message: "gone"}))
	})

	t.Run("no assistant message", func(t *testing.T) {
		err := &ServiceError{Status: 400, Message: "No assistant found with id 'asst_x'"}
		assert.True(t, IsNotFound(err))
	})

	t.Run("wrapped service error", func(t *testing.T) {
		err := fmt.Errorf("delete: %w", &ServiceError{Status: 404})
		assert.True(t, IsNotFound(err))
	})

	t.Run("other service errors", func(t *testing.T) {
		assert.False(t, IsNotFound(&ServiceError{Status: 403, Message: "forbidden"}))
	})

	t.Run("non-service errors", func(t *testing.T) {
		assert.False(t, IsNotFound(errors.New("dial tcp: timeout")))
		assert.False(t, IsNotFound(nil))
	})
}

func TestIsServiceError(t *testing.T) {
	assert.True(t, IsServiceError(&ServiceError{Status: 500}))
	assert.True(t, IsServiceError(fmt.Errorf("wrap: %w", &ServiceError{Status: 500})))
	assert.False(t, IsServiceError(errors.New("plain")))
}
