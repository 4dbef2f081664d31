//go:build unix

package sigward

import "context"

// Default is the package-level registry. Signal dispositions are
// process-global state, so most programs want exactly one registry and can
// use the top-level wrappers below.
var Default = New()

// Set installs reaction for each signal on the [Default] registry and
// returns the previous reaction per signal.
func Set(reaction Reaction, sigs ...Signal) (map[Signal]Reaction, error) {
	return Default.Set(reaction, sigs...)
}

// Get returns the current reaction for sig on the [Default] registry.
func Get(sig Signal) (Reaction, error) { return Default.Get(sig) }

// ResetAll restores every catchable signal to the OS default action on the
// [Default] registry.
func ResetAll() error { return Default.ResetAll() }

// IgnoreTerminalSignals ignores the controlling-terminal signals on the
// [Default] registry.
func IgnoreTerminalSignals() error { return Default.IgnoreTerminalSignals() }

// Chain adds fn to sig's handler chain on the [Default] registry.
func Chain(sig Signal, pos Position, fn Handler) (Token, error) {
	return Default.Chain(sig, pos, fn)
}

// Unchain removes a chain entry from the [Default] registry.
func Unchain(t Token) error { return Default.Unchain(t) }

// Override opens a scoped override on the [Default] registry.
func Override(reaction Reaction, sigs ...Signal) (*Frame, error) {
	return Default.Override(reaction, sigs...)
}

// With runs fn under a scoped override on the [Default] registry.
func With(reaction Reaction, fn func() error, sigs ...Signal) error {
	return Default.With(reaction, fn, sigs...)
}

// WithTimeout runs fn under a deadline on the [Default] registry.
func WithTimeout(seconds uint, fn func(ctx context.Context) error, opts ...TimeoutOption) error {
	return Default.WithTimeout(seconds, fn, opts...)
}

// Block opens a blocking scope on the [Default] registry.
func Block(sigs ...Signal) (*BlockFrame, error) { return Default.Block(sigs...) }

// WhileBlocked runs fn with signals blocked on the [Default] registry.
func WhileBlocked(fn func() error, sigs ...Signal) error {
	return Default.WhileBlocked(fn, sigs...)
}

// AttachScheduler sets the scheduler for [Async] callbacks on the [Default]
// registry.
func AttachScheduler(s Scheduler) { Default.AttachScheduler(s) }

// Async registers an event-loop callback for signals on the [Default]
// registry.
func Async(cb func(Signal), sigs ...Signal) error { return Default.Async(cb, sigs...) }
