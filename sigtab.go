//go:build unix

package sigward

import (
	"fmt"
	"syscall"

	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"
)

// Signal identifies one platform signal. Values come from [Lookup],
// [LookupNumber], or [Resolve]; the zero value is not a valid signal.
type Signal struct {
	num  syscall.Signal
	name string
}

// Number returns the platform signal number.
func (s Signal) Number() int { return int(s.num) }

// Name returns the canonical name, e.g. "SIGINT".
func (s Signal) Name() string { return s.name }

func (s Signal) String() string { return s.name }

func (s Signal) osSignal() syscall.Signal { return s.num }

// The kernel reserves a small range for standard signals; realtime signals
// beyond it are platform noise we don't enumerate.
const maxScanSignal = 64

var (
	signalsByNum  = map[syscall.Signal]Signal{}
	signalsByName = map[string]Signal{}

	uncatchable = map[string]bool{
		"SIGKILL": true,
		"SIGSTOP": true,
	}

	// Default-action classification, per POSIX. Only names that exist on the
	// running platform end up in the derived sets.
	terminatingNames = []string{
		"SIGHUP", "SIGINT", "SIGQUIT", "SIGILL", "SIGABRT", "SIGFPE",
		"SIGSEGV", "SIGPIPE", "SIGALRM", "SIGTERM", "SIGXCPU", "SIGXFSZ",
		"SIGVTALRM", "SIGPROF", "SIGUSR1", "SIGUSR2",
	}
	suspendingNames = []string{"SIGSTOP", "SIGTSTP", "SIGTTIN", "SIGTTOU"}
	terminalNames   = []string{"SIGHUP", "SIGINT", "SIGTSTP", "SIGTTIN", "SIGTTOU", "SIGWINCH"}
)

func init() {
	for n := syscall.Signal(1); n <= maxScanSignal; n++ {
		name := unix.SignalName(n)
		if name == "" {
			continue
		}
		sig := Signal{num: n, name: name}
		signalsByNum[n] = sig
		if _, dup := signalsByName[name]; !dup {
			signalsByName[name] = sig
		}
	}
}

// Lookup resolves a canonical signal name, e.g. "SIGUSR1".
func Lookup(name string) (Signal, error) {
	if s, ok := signalsByName[name]; ok {
		return s, nil
	}
	return Signal{}, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}

// LookupNumber resolves a platform signal number.
func LookupNumber(num int) (Signal, error) {
	if s, ok := signalsByNum[syscall.Signal(num)]; ok {
		return s, nil
	}
	return Signal{}, fmt.Errorf("%w: %d", ErrUnknownSignal, num)
}

// Resolve accepts a [Signal], a name, a number, or a [syscall.Signal] and
// returns the table entry for it.
func Resolve(v any) (Signal, error) {
	switch x := v.(type) {
	case Signal:
		return LookupNumber(int(x.num))
	case string:
		return Lookup(x)
	case int:
		return LookupNumber(x)
	case syscall.Signal:
		return LookupNumber(int(x))
	default:
		return Signal{}, fmt.Errorf("%w: %v", ErrUnknownSignal, v)
	}
}

// Exists reports whether the platform defines the given signal. It accepts
// the same forms as [Resolve].
func Exists(v any) bool {
	_, err := Resolve(v)
	return err == nil
}

// Catchable reports whether the process may override the signal's
// disposition.
func Catchable(s Signal) bool {
	return !uncatchable[s.name]
}

func signalsNamed(names []string) []Signal {
	var out []Signal
	for _, name := range names {
		if s, ok := signalsByName[name]; ok {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Signal) bool { return a.num < b.num })
	return out
}

// TerminatingSignals returns the signals whose default action terminates the
// process, in ascending numeric order.
func TerminatingSignals() []Signal { return signalsNamed(terminatingNames) }

// SuspendingSignals returns the job-control signals that stop the process by
// default, in ascending numeric order.
func SuspendingSignals() []Signal { return signalsNamed(suspendingNames) }

// TerminalSignals returns the signals related to the controlling terminal,
// in ascending numeric order.
func TerminalSignals() []Signal { return signalsNamed(terminalNames) }

func catchableSignals() []Signal {
	var out []Signal
	for _, s := range signalsByNum {
		if Catchable(s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Signal) bool { return a.num < b.num })
	return out
}

func validSignal(s Signal) error {
	got, ok := signalsByNum[s.num]
	if !ok || got.name != s.name {
		return fmt.Errorf("%w: %v", ErrUnknownSignal, s.name)
	}
	return nil
}
