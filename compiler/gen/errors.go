package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidOptions indicates a malformed or unsupported generator option.
	ErrInvalidOptions = errors.New("rsproto: invalid options")
	// ErrCrateNotFound indicates a file outside the current crate with no
	// entry in the import-path-to-crate mapping.
	ErrCrateNotFound = errors.New("rsproto: crate not found")
	// ErrModuleCollision indicates two files resolving to the same submodule.
	ErrModuleCollision = errors.New("rsproto: module name collision")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("rsproto: code generation failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Value != nil {
		fmt.Fprintf(&b, "rsproto: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	} else {
		fmt.Fprintf(&b, "rsproto: config error for %q: %s", e.Option, e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidOptions
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// LookupError is returned when a file outside the current crate has no
// entry in the crate mapping.
type LookupError struct {
	File   string // file under generation
	Import string // path that failed to resolve
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	var b strings.Builder
	b.WriteString("rsproto: no crate mapping for ")
	b.WriteString(e.Import)
	if e.File != "" && e.File != e.Import {
		b.WriteString(" (imported by ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	b.WriteString("; add it to the bazel_crate_mapping file")
	return b.String()
}

// Is reports whether the target matches the sentinel error for LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrCrateNotFound
}

// NewLookupError creates a new LookupError.
func NewLookupError(file, imp string) *LookupError {
	return &LookupError{File: file, Import: imp}
}

// CollisionError is returned when two files of one crate resolve to the
// same submodule identifier.
type CollisionError struct {
	Module string
	First  string
	Second string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("rsproto: files %q and %q both map to module %q", e.First, e.Second, e.Module)
}

// Is reports whether the target matches the sentinel error for CollisionError.
func (e *CollisionError) Is(target error) bool {
	return target == ErrModuleCollision
}

// NewCollisionError creates a new CollisionError.
func NewCollisionError(module, first, second string) *CollisionError {
	return &CollisionError{
		Module: module,
		First:  first,
		Second: second,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "open", "message", "enum", "thunks", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("rsproto: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsLookupError reports whether the error is a LookupError.
func IsLookupError(err error) bool {
	var lookupErr *LookupError
	return errors.As(err, &lookupErr)
}

// IsCollisionError reports whether the error is a CollisionError.
func IsCollisionError(err error) bool {
	var collisionErr *CollisionError
	return errors.As(err, &collisionErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
