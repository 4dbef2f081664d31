package sigward

import "errors"

var (
	// ErrUnknownSignal is returned when a signal name or number is not
	// recognized by the platform.
	ErrUnknownSignal = errors.New("sigward: unknown signal")

	// ErrUncatchable is returned when the platform forbids intercepting or
	// blocking a signal (SIGKILL, SIGSTOP).
	ErrUncatchable = errors.New("sigward: signal cannot be caught")

	// ErrNoHandlers is returned when a catch reaction is installed with an
	// empty handler chain.
	ErrNoHandlers = errors.New("sigward: catch reaction with no handlers")

	// ErrDeadlineArmed is returned by [Registry.WithTimeout] when a deadline
	// scope is already active. The alarm is a single process-wide resource;
	// nested deadlines are rejected rather than silently coalesced.
	ErrDeadlineArmed = errors.New("sigward: deadline already armed")

	// ErrBridgeUnavailable is returned by [Registry.Async] when no scheduler
	// is attached to the registry.
	ErrBridgeUnavailable = errors.New("sigward: no scheduler attached")

	// ErrSchedulerStopped is returned by [Loop.Schedule] after the loop has
	// stopped.
	ErrSchedulerStopped = errors.New("sigward: scheduler stopped")

	// ErrClosed is returned by registry operations after [Registry.Close].
	ErrClosed = errors.New("sigward: registry closed")
)

// TimeoutError is returned by [Registry.WithTimeout] when the deadline fires
// before the guarded function completes. The message defaults to the alarm
// signal's canonical name.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string { return e.Message }

// Timeout reports true, so callers can detect the condition through the
// net.Error-style interface as well as with errors.As.
func (e *TimeoutError) Timeout() bool { return true }
