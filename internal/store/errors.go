package store

import "errors"

// Sentinel errors for the store package.
var (
	// ErrStopped is returned by Dispatch once the store has stopped.
	ErrStopped = errors.New("store is stopped")

	// ErrAlreadyRunning is returned when Run is called more than once.
	ErrAlreadyRunning = errors.New("store is already running")
)
