package breaker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Requests flow through.
	Closed State = iota

	// Open is the tripped state. Requests are rejected immediately.
	Open

	// HalfOpen is the recovery testing state. Requests are allowed
	// through as probes.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Func is the function signature for protected operations.
type Func func(ctx context.Context) error

// Condition determines whether an error should count as a failure.
type Condition func(error) bool

// HookFunc is called on a trip or reset transition with the time at
// which the transition happened.
type HookFunc func(at time.Time)

// OnStateChangeFunc is called when the circuit changes state.
type OnStateChangeFunc func(name string, from, to State)

// OnRejectFunc is called when a call is rejected due to open circuit.
type OnRejectFunc func(name string)

// Default values.
const (
	DefaultFailureThreshold = 5
	DefaultSuccessThreshold = 2
	DefaultOpenDuration     = 30 * time.Second
)

// Breaker is a circuit breaker guarding one dependency edge.
// Safe for concurrent use.
//
// State transitions are serialized by a single internal lock. The
// failure and success tallies are plain atomics incremented outside
// that lock, so a burst of concurrent failures may race to trip the
// circuit; Trip is idempotent to make that race harmless.
type Breaker struct {
	name string
	cfg  config

	mu    sync.Mutex
	state State
	timer Timer // pending open-duration callback, non-nil only while Open

	failures  atomic.Int32
	successes atomic.Int32
}

// New creates a Breaker with the given options.
func New(name string, opts ...Option) *Breaker {
	cfg := config{
		failureThreshold: DefaultFailureThreshold,
		successThreshold: DefaultSuccessThreshold,
		openDuration:     DefaultOpenDuration,
		condition:        defaultCondition,
		scheduler:        SystemScheduler(),
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Breaker{
		name:  name,
		cfg:   cfg,
		state: Closed,
	}
}

// Do executes fn with circuit breaker protection.
//
// If the circuit is open, fn is not invoked and ErrOpen is returned.
// Otherwise fn runs and its outcome is recorded before its error is
// returned to the caller.
func (b *Breaker) Do(ctx context.Context, fn Func) error {
	if !b.testable() {
		b.rejected()
		return ErrOpen
	}

	err := fn(ctx)

	if b.cfg.condition(err) {
		b.Fail()
	} else {
		b.succeed()
	}

	return err
}

// Fail reports a failed execution out of band, applying the same
// bookkeeping as an error observed during a wrapped call: while closed
// it advances the failure tally and trips at the threshold, while
// half-open it trips immediately.
func (b *Breaker) Fail() {
	switch b.State() {
	case Closed:
		if int(b.failures.Add(1)) >= b.cfg.failureThreshold {
			b.Trip()
		}
	case HalfOpen:
		b.Trip()
	}
}

// succeed records a successful execution. While closed, reaching the
// success threshold clears the failure tally so stale failures do not
// accumulate forever. While half-open, reaching it resets the circuit.
func (b *Breaker) succeed() {
	switch b.State() {
	case Closed:
		if int(b.successes.Add(1)) >= b.cfg.successThreshold {
			b.failures.Store(0)
		}
	case HalfOpen:
		if int(b.successes.Add(1)) >= b.cfg.successThreshold {
			b.Reset()
		}
	}
}

// Trip forces the circuit open and arms the open-duration callback.
// No-op if the circuit is already open.
func (b *Breaker) Trip() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		return
	}
	from := b.state
	b.state = Open

	// A stale callback can survive a failed half-open probe. Replace it.
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = b.cfg.scheduler.Schedule(b.cfg.openDuration, b.expire)

	now := time.Now()
	b.cfg.logger.Info("circuit tripped",
		zap.String("breaker", b.name),
		zap.Stringer("from", from),
	)
	if b.cfg.onTrip != nil {
		b.cfg.onTrip(now)
	}
	b.notify(from, Open)
}

// Reset forces the circuit closed, clears both tallies and cancels any
// pending open-duration callback. No-op if the circuit is already closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Closed {
		return
	}
	from := b.state
	b.state = Closed

	b.failures.Store(0)
	b.successes.Store(0)

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	now := time.Now()
	b.cfg.logger.Info("circuit reset",
		zap.String("breaker", b.name),
		zap.Stringer("from", from),
	)
	if b.cfg.onReset != nil {
		b.cfg.onReset(now)
	}
	b.notify(from, Closed)
}

// expire is the scheduled open-duration callback. A manual Reset may
// have raced it, so the state is re-checked under the lock before the
// transition to half-open.
func (b *Breaker) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Open {
		return
	}
	b.state = HalfOpen
	b.successes.Store(0)
	b.timer = nil

	b.cfg.logger.Info("circuit half-open", zap.String("breaker", b.name))
	b.notify(Open, HalfOpen)
}

// testable reports whether calls are currently permitted to execute.
func (b *Breaker) testable() bool {
	return b.State() != Open
}

func (b *Breaker) rejected() {
	b.cfg.logger.Debug("call rejected", zap.String("breaker", b.name))
	if b.cfg.onReject != nil {
		b.cfg.onReject(b.name)
	}
}

// notify runs with the state lock held; hooks must not call back into
// the breaker.
func (b *Breaker) notify(from, to State) {
	if b.cfg.onStateChange != nil {
		b.cfg.onStateChange(b.name, from, to)
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

// Counts returns the current failure and success tallies.
func (b *Breaker) Counts() (failures, successes int) {
	return int(b.failures.Load()), int(b.successes.Load())
}

// FailureThreshold returns the number of failures required to trip.
func (b *Breaker) FailureThreshold() int {
	return b.cfg.failureThreshold
}

// SuccessThreshold returns the number of successes required to reset a
// half-open circuit.
func (b *Breaker) SuccessThreshold() int {
	return b.cfg.successThreshold
}

// OpenDuration returns how long the circuit stays open before probing.
func (b *Breaker) OpenDuration() time.Duration {
	return b.cfg.openDuration
}

// SetFailureThreshold changes the failure threshold. Not safe to call
// while traffic is in flight.
func (b *Breaker) SetFailureThreshold(n int) {
	b.cfg.failureThreshold = n
}

// SetSuccessThreshold changes the success threshold. Not safe to call
// while traffic is in flight.
func (b *Breaker) SetSuccessThreshold(n int) {
	b.cfg.successThreshold = n
}

// SetOpenDuration changes the open duration. Takes effect on the next
// trip. Not safe to call while traffic is in flight.
func (b *Breaker) SetOpenDuration(d time.Duration) {
	b.cfg.openDuration = d
}

func defaultCondition(err error) bool {
	return err != nil
}
