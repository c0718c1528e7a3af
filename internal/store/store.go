package store

import (
	"context"
	"fmt"
	"iter"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/lined/internal/logging"
)

// Reducer computes the next state from a state and an action.
// It must be pure.
type Reducer[S, A any] func(S, A) S

// EffectRunner performs effect against a committed state and yields
// follow-up actions. A yielded error stops the store.
type EffectRunner[S, A, E any] func(ctx context.Context, state S, effect E) iter.Seq2[A, error]

// Stats contains store counters.
type Stats struct {
	Dispatched     uint64
	Applied        uint64
	EffectsStarted uint64
	EffectsFailed  uint64
	Subscribers    int
}

type message[A, E any] struct {
	action A
	effect E

	// barrier, when set, is closed once every earlier message is applied.
	barrier chan struct{}
}

// Store serializes state changes through a single consumer.
// The zero values of A and E mean "no action" and "no effect".
type Store[S any, A comparable, E comparable] struct {
	reduce    Reducer[S, A]
	runEffect EffectRunner[S, A, E]
	cfg       config[S]
	log       *logging.Logger

	queue   chan message[A, E]
	current atomic.Pointer[S]

	// mu orders commits with subscription changes so a new subscriber
	// never misses or repeats a state.
	mu     sync.Mutex
	subs   map[string]*Subscription[S]
	closed bool

	running  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	fatal    chan error
	effects  sync.WaitGroup

	// active counts running effects; idle barriers wait for it to reach 0.
	effectsMu sync.Mutex
	active    int
	idle      []chan struct{}

	// followUps counts actions dispatched by effects.
	followUps atomic.Uint64

	dispatched     atomic.Uint64
	applied        atomic.Uint64
	effectsStarted atomic.Uint64
	effectsFailed  atomic.Uint64
}

// New creates a store holding initial.
func New[S any, A comparable, E comparable](initial S, reduce Reducer[S, A], run EffectRunner[S, A, E], opts ...Option[S]) *Store[S, A, E] {
	cfg := config[S]{
		queueSize:    DefaultQueueSize,
		drainTimeout: DefaultDrainTimeout,
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store[S, A, E]{
		reduce:    reduce,
		runEffect: run,
		cfg:       cfg,
		log:       cfg.logger.WithComponent("store"),
		queue:     make(chan message[A, E], cfg.queueSize),
		subs:      make(map[string]*Subscription[S]),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		fatal:     make(chan error, 1),
	}
	s.current.Store(&initial)
	return s
}

// State returns the latest committed state.
func (s *Store[S, A, E]) State() S {
	return *s.current.Load()
}

// Dispatch queues an action and an effect for the consumer. Either may be
// the zero value; if both are, Dispatch does nothing. It blocks while the
// queue is full and fails with ErrStopped once the store has stopped.
func (s *Store[S, A, E]) Dispatch(ctx context.Context, action A, effect E) error {
	var (
		noAction A
		noEffect E
	)
	if action == noAction && effect == noEffect {
		return nil
	}

	select {
	case <-s.done:
		return ErrStopped
	default:
	}

	select {
	case s.queue <- message[A, E]{action: action, effect: effect}:
		s.dispatched.Add(1)
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush waits until every message dispatched before the call has been
// applied and no effect is running. Actions that those effects dispatch
// are applied before Flush returns as well.
func (s *Store[S, A, E]) Flush(ctx context.Context) error {
	for {
		before := s.followUps.Load()
		if err := s.barrier(ctx); err != nil {
			return err
		}
		if s.followUps.Load() == before {
			return nil
		}
	}
}

// barrier queues a marker behind every dispatched message and waits until
// the consumer reaches it with no effect running.
func (s *Store[S, A, E]) barrier(ctx context.Context) error {
	barrier := make(chan struct{})

	select {
	case <-s.done:
		return ErrStopped
	default:
	}

	select {
	case s.queue <- message[A, E]{barrier: barrier}:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-barrier:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a subscription whose first value is the latest
// committed state, followed by every state committed afterwards.
// Subscribing to a stopped store yields the final state and ends.
func (s *Store[S, A, E]) Subscribe() *Subscription[S] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscription[S]()
	sub.push(*s.current.Load())
	if s.closed {
		sub.finish()
		return sub
	}

	s.subs[sub.id] = sub
	sub.detach = func() { s.unsubscribe(sub.id) }
	return sub
}

func (s *Store[S, A, E]) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Stop asks Run to return. It is safe to call more than once.
func (s *Store[S, A, E]) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed when Run has returned.
func (s *Store[S, A, E]) Done() <-chan struct{} {
	return s.done
}

// Stats returns a snapshot of the store counters.
func (s *Store[S, A, E]) Stats() Stats {
	s.mu.Lock()
	subs := len(s.subs)
	s.mu.Unlock()

	return Stats{
		Dispatched:     s.dispatched.Load(),
		Applied:        s.applied.Load(),
		EffectsStarted: s.effectsStarted.Load(),
		EffectsFailed:  s.effectsFailed.Load(),
		Subscribers:    subs,
	}
}

// Run consumes the queue until a committed state matches the stop
// predicate, Stop is called, ctx is cancelled or an effect fails.
// It returns the effect error or ctx.Err(), and nil otherwise.
func (s *Store[S, A, E]) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	effectCtx, cancel := context.WithCancel(ctx)
	defer s.shutdown(cancel)

	s.log.Debug("running")
	if s.shouldStop() {
		return nil
	}

	for {
		select {
		case msg := <-s.queue:
			s.process(effectCtx, msg)
			if s.shouldStop() {
				s.log.Debug("stop state reached")
				return nil
			}
		case err := <-s.fatal:
			return err
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store[S, A, E]) shouldStop() bool {
	return s.cfg.stopWhen != nil && s.cfg.stopWhen(s.State())
}

func (s *Store[S, A, E]) process(ctx context.Context, msg message[A, E]) {
	var (
		noAction A
		noEffect E
	)

	if msg.barrier != nil {
		s.whenIdle(msg.barrier)
		return
	}

	state := s.State()
	if msg.action != noAction {
		state = s.reduce(state, msg.action)
		s.commit(state)
		s.applied.Add(1)
		s.log.Debug("applied %v", msg.action)
	}

	if msg.effect != noEffect {
		s.startEffect(ctx, state, msg.effect)
	}
}

func (s *Store[S, A, E]) commit(state S) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(&state)
	for _, sub := range s.subs {
		sub.push(state)
	}
}

func (s *Store[S, A, E]) startEffect(ctx context.Context, state S, effect E) {
	s.effects.Add(1)
	s.effectsStarted.Add(1)
	s.effectsMu.Lock()
	s.active++
	s.effectsMu.Unlock()
	s.log.Debug("effect %v started", effect)

	go func() {
		defer s.effects.Done()
		defer s.effectDone()
		defer func() {
			if r := recover(); r != nil {
				s.fail(fmt.Errorf("effect %v panicked: %v\n%s", effect, r, debug.Stack()))
			}
		}()

		var noEffect E
		for action, err := range s.runEffect(ctx, state, effect) {
			if err != nil {
				s.fail(fmt.Errorf("effect %v: %w", effect, err))
				return
			}
			if err := s.Dispatch(ctx, action, noEffect); err != nil {
				return
			}
			s.followUps.Add(1)
		}
	}()
}

func (s *Store[S, A, E]) effectDone() {
	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()

	s.active--
	if s.active == 0 {
		for _, ch := range s.idle {
			close(ch)
		}
		s.idle = nil
	}
}

// whenIdle closes ch once no effect is running.
func (s *Store[S, A, E]) whenIdle(ch chan struct{}) {
	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()

	if s.active == 0 {
		close(ch)
		return
	}
	s.idle = append(s.idle, ch)
}

// fail records the first fatal error; later ones are only logged.
func (s *Store[S, A, E]) fail(err error) {
	s.effectsFailed.Add(1)
	s.log.Error("%v", err)
	select {
	case s.fatal <- err:
	default:
	}
}

func (s *Store[S, A, E]) shutdown(cancel context.CancelFunc) {
	close(s.done)
	cancel()

	s.mu.Lock()
	s.closed = true
	for id, sub := range s.subs {
		sub.finish()
		delete(s.subs, id)
	}
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.effects.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(s.cfg.drainTimeout):
		s.log.Warn("abandoning running effects after %v", s.cfg.drainTimeout)
	}
	s.log.Debug("stopped")
}
