package store

import (
	"time"

	"github.com/dshills/lined/internal/logging"
)

const (
	// DefaultQueueSize is the default capacity of the dispatch queue.
	DefaultQueueSize = 1024

	// DefaultDrainTimeout is how long Run waits for running effects after
	// the loop has stopped.
	DefaultDrainTimeout = 2 * time.Second
)

type config[S any] struct {
	queueSize    int
	stopWhen     func(S) bool
	drainTimeout time.Duration
	logger       *logging.Logger
}

// Option configures a Store.
type Option[S any] func(*config[S])

// WithQueueSize sets the dispatch queue capacity. Dispatch blocks while
// the queue is full.
func WithQueueSize[S any](size int) Option[S] {
	return func(c *config[S]) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithStopWhen makes Run return once a committed state matches pred.
func WithStopWhen[S any](pred func(S) bool) Option[S] {
	return func(c *config[S]) {
		c.stopWhen = pred
	}
}

// WithDrainTimeout bounds how long Run waits for running effects after
// stopping. Zero abandons them immediately.
func WithDrainTimeout[S any](d time.Duration) Option[S] {
	return func(c *config[S]) {
		if d >= 0 {
			c.drainTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger[S any](l *logging.Logger) Option[S] {
	return func(c *config[S]) {
		if l != nil {
			c.logger = l
		}
	}
}
