// Package breaker implements the circuit breaker pattern for resilient distributed systems.
//
// breaker protects services from cascading failures by:
//
//   - Tracking Failures: Errors advance a failure tally that trips the circuit open
//   - Fast Rejection: Open circuits reject calls immediately without load
//   - Timed Recovery: A scheduled probe window tests if the service has recovered
//   - Lifecycle Hooks: OnTrip, OnReset, OnStateChange, OnReject for observability
//
// # Quick Start
//
// Create a circuit and protect calls:
//
//	circuit := breaker.New("payment-service")
//
//	err := circuit.Do(ctx, func(ctx context.Context) error {
//	    return client.Charge(ctx, amount)
//	})
//	if breaker.IsOpen(err) {
//	    return handleFallback()
//	}
//
// For functions that return values, use the generic Run helper:
//
//	user, err := breaker.Run(ctx, circuit, func(ctx context.Context) (*User, error) {
//	    return client.GetUser(ctx, id)
//	})
//
// # Circuit States
//
// The circuit breaker has three states:
//
//	Closed (normal):
//	    - Requests flow through to the protected function
//	    - Failures are counted; at the failure threshold the circuit trips
//	    - Reaching the success threshold clears the failure tally
//
//	Open (tripped):
//	    - Requests are rejected immediately with ErrOpen
//	    - A one-shot timer moves the circuit to half-open after the open duration
//
//	HalfOpen (testing):
//	    - Requests are allowed through as probes
//	    - Reaching the success threshold closes the circuit
//	    - A single failure reopens it for another full open duration
//
// # Configuration
//
// Configure thresholds and timing with options:
//
//	circuit := breaker.New("api",
//	    breaker.WithFailureThreshold(5),           // Trip after 5 failures
//	    breaker.WithSuccessThreshold(2),           // Close after 2 successes in half-open
//	    breaker.WithOpenDuration(30*time.Second),  // Wait 30s before half-open
//	)
//
// Default values:
//
//   - FailureThreshold: 5 failures
//   - SuccessThreshold: 2 successes
//   - OpenDuration: 30 seconds
//
// Defaults can also come from the environment via the config sub-package:
//
//	defaults, err := config.Load()
//	circuit := breaker.New("api", defaults.Options()...)
//
// # Call Variants
//
// Do and Run propagate the operation's error unchanged. Two more
// contracts are available:
//
// Attempt never returns an error; rejections and failures both collapse
// to a missing result:
//
//	user, ok := breaker.Attempt(ctx, circuit, fetchUser)
//	if !ok {
//	    user = guestUser
//	}
//
// AttemptNonNil additionally treats a nil pointer result as a failure:
//
//	cfg, ok := breaker.AttemptNonNil(ctx, circuit, loadConfig)
//
// RunExpecting declares an expected error category; anything else is
// wrapped in an UnexpectedError:
//
//	res, err := breaker.RunExpecting[*Order, *client.APIError](ctx, circuit, placeOrder)
//	var apiErr *client.APIError
//	switch {
//	case errors.As(err, &apiErr):
//	    // declared category, handle normally
//	case breaker.IsUnexpected(err):
//	    // something the caller did not plan for
//	}
//
// # Asynchronous Calls
//
// Async wraps an in-flight result so its outcome is reported to the
// breaker exactly once, regardless of how many goroutines observe it:
//
//	guard, err := breaker.AsyncRun(ctx, circuit, func(ctx context.Context) (Report, error) {
//	    return buildReport(ctx)
//	})
//	if breaker.IsOpen(err) {
//	    return fallbackReport()
//	}
//	report, err := guard.Wait(ctx)
//
// WaitFor bounds the wait without deciding the outcome:
//
//	report, err := guard.WaitFor(2 * time.Second)
//	if errors.Is(err, breaker.ErrWaitTimeout) {
//	    // still in flight; nothing was reported to the breaker
//	}
//
// # Failure Conditions
//
// By default, any non-nil error counts as a failure. Customize this with If:
//
//	// Only count specific errors as failures
//	circuit := breaker.New("api",
//	    breaker.If(func(err error) bool {
//	        return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
//	    }),
//	)
//
// Use IfNot to exclude certain errors:
//
//	// Don't count 404s as failures
//	circuit := breaker.New("api",
//	    breaker.IfNot(func(err error) bool {
//	        return errors.Is(err, ErrNotFound)
//	    }),
//	)
//
// # Lifecycle Hooks
//
// Hooks provide observability without coupling to a specific metrics system:
//
//	circuit := breaker.New("service",
//	    breaker.OnTrip(func(at time.Time) {
//	        alerts.Fire("circuit tripped", at)
//	    }),
//	    breaker.OnReset(func(at time.Time) {
//	        alerts.Clear("circuit tripped", at)
//	    }),
//	    breaker.OnStateChange(func(name string, from, to breaker.State) {
//	        metrics.Gauge("circuit.state", float64(to), "circuit:"+name)
//	    }),
//	    breaker.OnReject(func(name string) {
//	        metrics.Increment("circuit.rejected", "circuit:"+name)
//	    }),
//	)
//
// Hooks run synchronously during the transition and must not call back
// into the breaker.
//
// For logging, pass a zap logger and transitions are logged with the
// breaker name:
//
//	circuit := breaker.New("service", breaker.WithLogger(logger))
//
// # Manual Control
//
// Trip, Reset and Fail allow out-of-band signaling:
//
//	circuit.Trip()   // force open, e.g. from a health checker
//	circuit.Reset()  // force closed, e.g. from an admin endpoint
//	circuit.Fail()   // count a failure observed outside a wrapped call
//
// # Inspecting State
//
// Query the circuit's current status:
//
//	state := circuit.State()    // Closed, Open, or HalfOpen
//	name := circuit.Name()      // The circuit's name
//	failures, successes := circuit.Counts()
//
// # Testing
//
// Inject a fake scheduler to drive the open-duration transition
// deterministically:
//
//	type fakeScheduler struct{ fns []func() }
//
//	func (s *fakeScheduler) Schedule(d time.Duration, fn func()) breaker.Timer {
//	    s.fns = append(s.fns, fn)
//	    return noopTimer{}
//	}
//
//	func (s *fakeScheduler) Fire() {
//	    for _, fn := range s.fns {
//	        fn()
//	    }
//	    s.fns = nil
//	}
//
//	func TestCircuitProbesAfterOpenDuration(t *testing.T) {
//	    sched := &fakeScheduler{}
//	    circuit := breaker.New("test",
//	        breaker.WithFailureThreshold(1),
//	        breaker.WithScheduler(sched),
//	    )
//
//	    _ = circuit.Do(ctx, func(ctx context.Context) error {
//	        return errors.New("fail")
//	    })
//	    assert.Equal(t, breaker.Open, circuit.State())
//
//	    sched.Fire()
//	    assert.Equal(t, breaker.HalfOpen, circuit.State())
//	}
//
// # Best Practices
//
// 1. Name circuits after the service they protect:
//
//	breaker.New("payment-gateway")
//	breaker.New("user-service")
//
// 2. One breaker per dependency edge; share it across callers rather
// than creating one per request.
//
// 3. Provide fallbacks for open circuits:
//
//	if breaker.IsOpen(err) {
//	    return cachedValue, nil
//	}
//
// 4. Tune thresholds based on your traffic patterns:
//
//	// High-traffic: higher threshold to avoid false positives
//	breaker.WithFailureThreshold(10)
//
//	// Low-traffic: lower threshold for faster detection
//	breaker.WithFailureThreshold(3)
package breaker
