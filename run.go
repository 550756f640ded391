package breaker

import (
	"context"
	"errors"
)

// errNilResult marks a nil result from AttemptNonNil so it flows
// through the normal failure bookkeeping.
var errNilResult = errors.New("nil result")

// Run executes fn and returns its result with circuit breaker protection.
// This is a convenience wrapper for functions that return a value.
func Run[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := b.Do(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}

// Attempt executes fn and never returns an error. A rejected call or a
// failed execution collapses to (zero value, false); the caller cannot
// tell the two apart. The breaker's tallies are updated either way.
func Attempt[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, bool) {
	result, err := Run(ctx, b, fn)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

// AttemptNonNil is Attempt for pointer results where nil is not an
// acceptable outcome: a nil result with a nil error is recorded as a
// failure and yields (nil, false).
func AttemptNonNil[T any](ctx context.Context, b *Breaker, fn func(context.Context) (*T, error)) (*T, bool) {
	result, err := Run(ctx, b, func(ctx context.Context) (*T, error) {
		v, fnErr := fn(ctx)
		if fnErr == nil && v == nil {
			return nil, errNilResult
		}
		return v, fnErr
	})
	if err != nil {
		return nil, false
	}
	return result, true
}

// RunExpecting behaves like Run, but any error that does not match the
// expected category E is re-wrapped in an UnexpectedError carrying the
// original as its cause. Errors matching E, and ErrOpen, propagate
// unchanged.
func RunExpecting[T any, E error](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	result, err := Run(ctx, b, fn)
	if err == nil || IsOpen(err) {
		return result, err
	}

	var expected E
	if errors.As(err, &expected) {
		return result, err
	}
	return result, &UnexpectedError{Err: err}
}
