package script

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a closed engine is used.
var ErrClosed = errors.New("script engine is closed")

// Error is a failure while running a script.
type Error struct {
	// Source is the file name or "<string>".
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
