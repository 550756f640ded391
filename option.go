package breaker

import (
	"time"

	"go.uber.org/zap"
)

type config struct {
	failureThreshold int
	successThreshold int
	openDuration     time.Duration
	condition        Condition
	scheduler        Scheduler
	logger           *zap.Logger

	onTrip        HookFunc
	onReset       HookFunc
	onStateChange OnStateChangeFunc
	onReject      OnRejectFunc
}

// Option configures a Breaker.
type Option func(*config)

// WithFailureThreshold sets the number of failures before the circuit
// trips open. Default is 5.
func WithFailureThreshold(n int) Option {
	return func(c *config) {
		c.failureThreshold = n
	}
}

// WithSuccessThreshold sets the number of successes in the half-open
// state required before closing the circuit. Default is 2.
func WithSuccessThreshold(n int) Option {
	return func(c *config) {
		c.successThreshold = n
	}
}

// WithOpenDuration sets how long the circuit stays open before
// transitioning to half-open. Default is 30 seconds.
func WithOpenDuration(d time.Duration) Option {
	return func(c *config) {
		c.openDuration = d
	}
}

// If sets the condition that determines whether an error counts as a failure.
// By default, any non-nil error is a failure.
func If(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// IfNot sets a condition where matching errors are NOT counted as failures.
// This is equivalent to If(Not(cond)).
func IfNot(cond Condition) Option {
	return If(Not(cond))
}

// Not inverts a condition.
func Not(cond Condition) Condition {
	return func(err error) bool {
		return !cond(err)
	}
}

// WithScheduler sets the scheduler used to arm the open-duration
// callback. Useful for testing. Default is SystemScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithLogger sets the logger for state transitions and rejections.
// Passing nil leaves logging disabled.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OnTrip sets a hook called with the transition time whenever the
// circuit trips open.
func OnTrip(fn HookFunc) Option {
	return func(c *config) {
		c.onTrip = fn
	}
}

// OnReset sets a hook called with the transition time whenever the
// circuit resets to closed.
func OnReset(fn HookFunc) Option {
	return func(c *config) {
		c.onReset = fn
	}
}

// OnStateChange sets a hook called when the circuit changes state.
func OnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) {
		c.onStateChange = fn
	}
}

// OnReject sets a hook called when a call is rejected due to open circuit.
func OnReject(fn OnRejectFunc) Option {
	return func(c *config) {
		c.onReject = fn
	}
}
