//go:build unix

package sigward

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// armedDeadline marks the one outstanding deadline scope; the alarm is a
// single process-wide resource.
type armedDeadline struct {
	expires time.Time
}

// TimeoutOption configures one [Registry.WithTimeout] scope.
type TimeoutOption func(*timeoutConfig)

type timeoutConfig struct {
	message string
}

// WithTimeoutMessage overrides the message carried by the returned
// [TimeoutError]. The default is the alarm signal's canonical name.
func WithTimeoutMessage(msg string) TimeoutOption {
	return func(c *timeoutConfig) { c.message = msg }
}

// WithTimeout runs fn with a deadline of the given number of whole seconds
// (alarm granularity). When the deadline fires, the context passed to fn is
// canceled and WithTimeout returns a [TimeoutError]; cancellation is
// cooperative, so fn must observe ctx for the deadline to interrupt it. The
// alarm is disarmed and the alarm signal's previous disposition restored on
// every exit path, whether fn completes, fails, or panics.
//
// At most one deadline may be outstanding per process; a nested call fails
// with [ErrDeadlineArmed] rather than silently reshaping the outer scope's
// deadline.
func (r *Registry) WithTimeout(seconds uint, fn func(ctx context.Context) error, opts ...TimeoutOption) error {
	alarmSig, err := Lookup("SIGALRM")
	if err != nil {
		return err
	}

	cfg := timeoutConfig{message: alarmSig.Name()}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	if r.deadline != nil {
		r.mu.Unlock()
		return ErrDeadlineArmed
	}
	r.deadline = &armedDeadline{expires: time.Now().Add(time.Duration(seconds) * time.Second)}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.deadline = nil
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Bool
	frame, err := r.Override(CatchWith(func(context.Context, Signal) error {
		fired.Store(true)
		cancel()
		return nil
	}), alarmSig)
	if err != nil {
		return err
	}
	defer frame.Restore()

	if err := r.armAlarm(seconds); err != nil {
		return fmt.Errorf("sigward: arming alarm: %w", err)
	}
	// Disarm before the frame restores, so a stray expiry cannot land on the
	// restored disposition.
	defer r.disarmAlarm()

	err = fn(ctx)
	if fired.Load() {
		return &TimeoutError{Message: cfg.message}
	}
	return err
}
