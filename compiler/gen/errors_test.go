package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("kernel", "rust", "unknown kernel")

		assert.Contains(t, err.Error(), "rsproto: config error")
		assert.Contains(t, err.Error(), "kernel")
		assert.Contains(t, err.Error(), "rust")
		assert.Contains(t, err.Error(), "unknown kernel")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("kernel", nil, "mandatory option missing")

		assert.Contains(t, err.Error(), "mandatory option missing")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("no such file")
		err := &ConfigError{Option: "bazel_crate_mapping", Message: "read", Cause: cause}

		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "no such file")
	})

	t.Run("Is matches ErrInvalidOptions", func(t *testing.T) {
		err := NewConfigError("kernel", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidOptions))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewConfigError("kernel", nil, "missing"))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestLookupError(t *testing.T) {
	t.Run("Error message names both files", func(t *testing.T) {
		err := NewLookupError("a.proto", "ext/x.proto")

		assert.Contains(t, err.Error(), "ext/x.proto")
		assert.Contains(t, err.Error(), "imported by a.proto")
	})

	t.Run("Is matches ErrCrateNotFound", func(t *testing.T) {
		err := NewLookupError("a.proto", "x.proto")
		assert.True(t, errors.Is(err, ErrCrateNotFound))
		assert.True(t, IsLookupError(err))
		assert.False(t, IsLookupError(NewConfigError("kernel", nil, "")))
	})
}

func TestCollisionError(t *testing.T) {
	err := NewCollisionError("internal_do_not_use_a", "a.proto", "a.protodevel")

	assert.Contains(t, err.Error(), "a.proto")
	assert.Contains(t, err.Error(), "a.protodevel")
	assert.Contains(t, err.Error(), "internal_do_not_use_a")
	assert.True(t, errors.Is(err, ErrModuleCollision))
	assert.True(t, IsCollisionError(err))
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("write failed")
		err := NewGenerationError("open", "a.u.pb.rs", "cannot open output", cause)

		assert.Contains(t, err.Error(), "rsproto: generation error")
		assert.Contains(t, err.Error(), "phase open")
		assert.Contains(t, err.Error(), "file: a.u.pb.rs")
		assert.Contains(t, err.Error(), "cannot open output")
		assert.Contains(t, err.Error(), "write failed")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("io error")
		err := NewGenerationError("message", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
	})
}
