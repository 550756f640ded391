package breaker

import "time"

// Timer is the ownership handle to a scheduled one-shot callback.
type Timer interface {
	// Stop cancels the pending callback. It reports whether the call
	// prevented the callback from firing.
	Stop() bool
}

// Scheduler schedules one-shot callbacks. It is the seam that lets
// tests drive the open-duration transition deterministically.
type Scheduler interface {
	// Schedule runs fn once after d has elapsed and returns a handle
	// that can cancel it.
	Schedule(d time.Duration, fn func()) Timer
}

// SystemScheduler returns the process-wide scheduler backed by the
// runtime timer heap. It is shared by every breaker that does not
// override it with WithScheduler.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Schedule(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (t systemTimer) Stop() bool {
	return t.t.Stop()
}
