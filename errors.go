package breaker

import (
	"errors"
	"fmt"
)

// ErrOpen is returned when the circuit is open and rejecting requests.
var ErrOpen = errors.New("circuit open")

// ErrWaitTimeout is returned by AsyncGuard.WaitFor when the bounded
// wait expires before the underlying result resolves.
var ErrWaitTimeout = errors.New("wait timed out")

// IsOpen reports whether err is because the circuit is open.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// UnexpectedError wraps an error that did not match the category a
// RunExpecting caller declared.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// IsUnexpected reports whether err was re-wrapped by RunExpecting
// because it fell outside the expected error category.
func IsUnexpected(err error) bool {
	var ue *UnexpectedError
	return errors.As(err, &ue)
}
