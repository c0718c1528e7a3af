package store

import (
	"iter"
	"sync"

	"github.com/google/uuid"
)

// Subscription receives committed states in commit order. Its mailbox is
// unbounded, so a slow reader never blocks the store and never misses a
// state.
type Subscription[S any] struct {
	id string

	mu       sync.Mutex
	pending  []S
	finished bool

	signal    chan struct{}
	out       chan S
	cancel    chan struct{}
	closeOnce sync.Once
	detach    func()
}

func newSubscription[S any]() *Subscription[S] {
	sub := &Subscription[S]{
		id:     uuid.NewString(),
		signal: make(chan struct{}, 1),
		out:    make(chan S),
		cancel: make(chan struct{}),
	}
	go sub.pump()
	return sub
}

// ID returns the subscription's unique identifier.
func (sub *Subscription[S]) ID() string {
	return sub.id
}

// C returns the channel of states. It is closed after the store stops
// and every pending state has been received, or after Close.
func (sub *Subscription[S]) C() <-chan S {
	return sub.out
}

// All returns an iterator over the states. Breaking out of the loop
// closes the subscription.
func (sub *Subscription[S]) All() iter.Seq[S] {
	return func(yield func(S) bool) {
		for state := range sub.out {
			if !yield(state) {
				sub.Close()
				return
			}
		}
	}
}

// Close stops delivery and detaches from the store. Pending states are
// discarded.
func (sub *Subscription[S]) Close() {
	sub.closeOnce.Do(func() {
		close(sub.cancel)
		if sub.detach != nil {
			sub.detach()
		}
	})
}

func (sub *Subscription[S]) push(state S) {
	sub.mu.Lock()
	sub.pending = append(sub.pending, state)
	sub.mu.Unlock()
	sub.notify()
}

// finish marks the end of the stream; the pump closes the channel once
// pending states are delivered.
func (sub *Subscription[S]) finish() {
	sub.mu.Lock()
	sub.finished = true
	sub.mu.Unlock()
	sub.notify()
}

func (sub *Subscription[S]) notify() {
	select {
	case sub.signal <- struct{}{}:
	default:
	}
}

func (sub *Subscription[S]) pump() {
	defer close(sub.out)

	for {
		sub.mu.Lock()
		if len(sub.pending) == 0 {
			finished := sub.finished
			sub.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-sub.signal:
				continue
			case <-sub.cancel:
				return
			}
		}

		var zero S
		state := sub.pending[0]
		sub.pending[0] = zero
		sub.pending = sub.pending[1:]
		sub.mu.Unlock()

		select {
		case sub.out <- state:
		case <-sub.cancel:
			return
		}
	}
}
