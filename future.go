package breaker

import (
	"context"
	"sync/atomic"
	"time"
)

// Future is the minimal contract for an in-flight asynchronous result.
type Future[T any] interface {
	// Done is closed when the result is available.
	Done() <-chan struct{}

	// Result returns the outcome. Valid only after Done is closed.
	Result() (T, error)

	// Cancel requests cancellation of the underlying work.
	Cancel()
}

// AsyncGuard decorates an in-flight Future so that its outcome is
// reported to the owning breaker exactly once, no matter how many
// callers observe it or on which goroutines.
type AsyncGuard[T any] struct {
	future   Future[T]
	breaker  *Breaker
	reported atomic.Bool
}

// Async submits an asynchronous operation to the breaker. If the
// circuit is open, produce is never invoked and ErrOpen is returned.
// Otherwise the produced future is wrapped in an AsyncGuard and
// returned immediately without blocking.
func Async[T any](b *Breaker, produce func() Future[T]) (*AsyncGuard[T], error) {
	if !b.testable() {
		b.rejected()
		return nil, ErrOpen
	}
	return &AsyncGuard[T]{
		future:  produce(),
		breaker: b,
	}, nil
}

// AsyncRun is a convenience form of Async that runs fn on a new
// goroutine, cancellable through the derived context.
func AsyncRun[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (*AsyncGuard[T], error) {
	return Async(b, func() Future[T] {
		return GoFuture(ctx, fn)
	})
}

// Wait blocks until the underlying result resolves or ctx is done.
//
// The first observation of the outcome, by whichever caller performs
// it, reports success or failure to the breaker; later observations do
// not report again. A context cancellation while waiting counts as a
// failure and returns ctx.Err().
func (g *AsyncGuard[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-g.future.Done():
		result, err := g.future.Result()
		g.report(err != nil)
		return result, err
	case <-ctx.Done():
		g.report(true)
		var zero T
		return zero, ctx.Err()
	}
}

// WaitFor blocks for at most d. On expiry it returns ErrWaitTimeout
// without reporting to the breaker: the outcome is still unknown, so a
// slow dependency is not counted as a failed one. A later Wait still
// reports normally.
func (g *AsyncGuard[T]) WaitFor(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-g.future.Done():
		result, err := g.future.Result()
		g.report(err != nil)
		return result, err
	case <-timer.C:
		var zero T
		return zero, ErrWaitTimeout
	}
}

// Done is closed when the underlying result is available. Useful for
// polling; once it is closed, Wait returns immediately.
func (g *AsyncGuard[T]) Done() <-chan struct{} {
	return g.future.Done()
}

// Cancel delegates to the underlying future. Cancellation by itself
// reports nothing to the breaker.
func (g *AsyncGuard[T]) Cancel() {
	g.future.Cancel()
}

// report delivers the outcome at most once across all observers.
func (g *AsyncGuard[T]) report(failed bool) {
	if !g.reported.CompareAndSwap(false, true) {
		return
	}
	if failed {
		g.breaker.Fail()
	} else {
		g.breaker.succeed()
	}
}

// GoFuture runs fn on a new goroutine and returns a Future for its
// result. Cancel cancels the context passed to fn.
func GoFuture[T any](ctx context.Context, fn func(context.Context) (T, error)) Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &goFuture[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(t.done)
		defer cancel()
		t.value, t.err = fn(ctx)
	}()
	return t
}

type goFuture[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

func (t *goFuture[T]) Done() <-chan struct{} {
	return t.done
}

func (t *goFuture[T]) Result() (T, error) {
	return t.value, t.err
}

func (t *goFuture[T]) Cancel() {
	t.cancel()
}
