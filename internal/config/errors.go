package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a setting has an unacceptable value.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnsupportedFormat indicates the file extension is not a known format.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// invalid wraps ErrInvalidConfig with the offending setting.
func invalid(setting string, value any, reason string) error {
	return fmt.Errorf("%w: %s = %v: %s", ErrInvalidConfig, setting, value, reason)
}
