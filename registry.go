//go:build unix

package sigward

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"
)

type entry struct {
	reaction Reaction
	// gen is unique per install, drawn from the registry's id counter. A
	// scoped override records the generation it displaced and the one it
	// installed; restoring puts the displaced generation back, so a clean
	// LIFO unwind leaves enclosing scopes' expectations intact while any
	// outside mutation is detectable.
	gen uint64
}

// Registry is the synchronized owner of the process's signal dispositions.
// All mutation funnels through it; delivery is drained from the runtime on a
// single dispatch goroutine, started lazily.
type Registry struct {
	mu sync.Mutex

	logger     *slog.Logger
	onConflict func(Conflict)
	onDelivery func(Signal, error)

	entries map[Signal]*entry
	nextID  uint64

	// blocked counts open blocking scopes per signal (mutation brackets
	// count as short-lived scopes). pending holds one bit per signal that
	// arrived while blocked; multiple arrivals coalesce, as they do in the
	// kernel.
	blocked map[Signal]int
	pending map[Signal]bool

	// open override frames, newest last; used to link conflict callsites
	frames []*Frame

	sched      Scheduler
	deadline   *armedDeadline
	alarmTimer *time.Timer

	sigch   chan os.Signal
	stopch  chan struct{}
	started bool
	closed  bool
}

// New creates a registry. Dispositions are process-global, so most programs
// should use [Default] instead of creating several registries that would
// contend over the same signals.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		entries: make(map[Signal]*entry),
		blocked: make(map[Signal]int),
		pending: make(map[Signal]bool),
		stopch:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set installs reaction for each of the given signals and returns the
// reaction previously installed per signal. The swap for each signal happens
// while that signal's delivery is held, so an arrival mid-update is deferred
// and then delivered under the new reaction, never observed inconsistently.
func (r *Registry) Set(reaction Reaction, sigs ...Signal) (map[Signal]Reaction, error) {
	if err := checkReaction(reaction); err != nil {
		return nil, err
	}
	if err := checkCatchable(sigs); err != nil {
		return nil, err
	}

	prev := make(map[Signal]Reaction, len(sigs))
	for _, s := range sigs {
		old, _, _, err := r.swap(s, reaction)
		if err != nil {
			return prev, err
		}
		if _, dup := prev[s]; !dup {
			prev[s] = old
		}
	}
	return prev, nil
}

// Get returns the current reaction for sig, creating its registry entry on
// first reference.
func (r *Registry) Get(sig Signal) (Reaction, error) {
	if err := validSignal(sig); err != nil {
		return Reaction{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entryLocked(sig).reaction.clone(), nil
}

// ResetAll restores every catchable signal to the OS default action.
func (r *Registry) ResetAll() error {
	_, err := r.Set(DefaultAction, catchableSignals()...)
	return err
}

// IgnoreTerminalSignals sets every signal related to the controlling
// terminal to be ignored.
func (r *Registry) IgnoreTerminalSignals() error {
	_, err := r.Set(IgnoreAction, TerminalSignals()...)
	return err
}

// Chain adds fn to sig's handler chain at the given position: [Before] runs
// first, [After] runs last. If the current reaction is not already a chain,
// a new single-entry chain replaces it. The returned token identifies the
// entry for [Registry.Unchain].
func (r *Registry) Chain(sig Signal, pos Position, fn Handler) (Token, error) {
	if err := checkCatchable([]Signal{sig}); err != nil {
		return Token{}, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Token{}, ErrClosed
	}
	r.blockLocked(sig)
	e := r.entryLocked(sig)
	r.nextID++
	ce := chainEntry{id: r.nextID, fn: fn}
	next := e.reaction.clone()
	switch {
	case next.kind != KindCatch:
		next = Reaction{kind: KindCatch, chain: []chainEntry{ce}}
	case pos == Before:
		next.chain = slices.Insert(next.chain, 0, ce)
	default:
		next.chain = append(next.chain, ce)
	}
	r.installLocked(sig, e, next)
	due := r.unblockLocked(sig)
	r.mu.Unlock()

	if due {
		r.deliver(sig)
	}
	return Token{sig: sig, id: ce.id}, nil
}

// Unchain removes the entry identified by t, leaving the order of its
// siblings unchanged. Removing the last entry degrades the signal to the
// default action. Unchaining an entry that is already gone is a no-op.
func (r *Registry) Unchain(t Token) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.blockLocked(t.sig)
	e := r.entryLocked(t.sig)
	if e.reaction.kind == KindCatch {
		next := e.reaction.clone()
		idx := slices.IndexFunc(next.chain, func(ce chainEntry) bool { return ce.id == t.id })
		if idx >= 0 {
			next.chain = slices.Delete(next.chain, idx, idx+1)
			if len(next.chain) == 0 {
				next = DefaultAction
			}
			r.installLocked(t.sig, e, next)
		}
	}
	due := r.unblockLocked(t.sig)
	r.mu.Unlock()

	if due {
		r.deliver(t.sig)
	}
	return nil
}

// Close stops the dispatch goroutine and detaches the registry from the
// runtime's signal delivery. Dispositions already installed are left as they
// are.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	sigch := r.sigch
	started := r.started
	r.mu.Unlock()

	if started {
		signal.Stop(sigch)
	}
	close(r.stopch)
}

// swap is the one mutation primitive: it brackets the install with a
// delivery hold on s and returns the previous reaction along with the
// generations it displaced and installed.
func (r *Registry) swap(s Signal, reaction Reaction) (Reaction, uint64, uint64, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Reaction{}, 0, 0, ErrClosed
	}
	r.blockLocked(s)
	e := r.entryLocked(s)
	prev := e.reaction.clone()
	prevGen := e.gen
	r.installLocked(s, e, reaction)
	gen := e.gen
	due := r.unblockLocked(s)
	r.mu.Unlock()

	if due {
		r.deliver(s)
	}
	return prev, prevGen, gen, nil
}

func (r *Registry) entryLocked(s Signal) *entry {
	e := r.entries[s]
	if e == nil {
		e = &entry{reaction: DefaultAction}
		r.entries[s] = e
	}
	return e
}

// installLocked assigns ids to new chain entries, swaps the reaction in, and
// reconciles the runtime registration unless the signal is held (in which
// case unblockLocked reconciles later).
func (r *Registry) installLocked(s Signal, e *entry, reaction Reaction) {
	reaction = reaction.clone()
	for i := range reaction.chain {
		if reaction.chain[i].id == 0 {
			r.nextID++
			reaction.chain[i].id = r.nextID
		}
	}
	e.reaction = reaction
	r.nextID++
	e.gen = r.nextID
	if r.blocked[s] == 0 {
		r.syncOSLocked(s)
	}
}

// blockLocked suppresses delivery of s: arrivals are routed to the dispatch
// channel and held in the pending set until the matching unblockLocked.
func (r *Registry) blockLocked(s Signal) {
	if r.blocked[s] == 0 && !r.closed {
		r.ensureStartedLocked()
		signal.Notify(r.sigch, s.osSignal())
	}
	r.blocked[s]++
}

// unblockLocked releases one hold on s. When the last hold is released it
// reconciles the runtime registration with the current reaction and reports
// whether a held arrival is now due for delivery.
func (r *Registry) unblockLocked(s Signal) bool {
	r.blocked[s]--
	if r.blocked[s] > 0 {
		return false
	}
	delete(r.blocked, s)
	r.syncOSLocked(s)
	if r.pending[s] {
		delete(r.pending, s)
		return true
	}
	return false
}

// syncOSLocked reconciles the runtime registration for s with its current
// reaction. While s is held, delivery stays routed to the dispatch channel
// regardless of the reaction.
func (r *Registry) syncOSLocked(s Signal) {
	if r.blocked[s] > 0 {
		if !r.closed {
			r.ensureStartedLocked()
			signal.Notify(r.sigch, s.osSignal())
		}
		return
	}
	switch r.entryLocked(s).reaction.kind {
	case KindCatch, KindBridged:
		if !r.closed {
			r.ensureStartedLocked()
			signal.Notify(r.sigch, s.osSignal())
		}
	case KindIgnore:
		signal.Ignore(s.osSignal())
	default:
		signal.Reset(s.osSignal())
	}
}

func (r *Registry) ensureStartedLocked() {
	if r.started || r.closed {
		return
	}
	r.sigch = make(chan os.Signal, 64)
	r.started = true
	go r.run(r.sigch, r.stopch)
}

// run is the dispatch loop: the boundary between the runtime's restricted
// delivery context and ordinary code. It drains the channel the runtime
// writes markers to and routes each arrival by its current reaction.
func (r *Registry) run(sigch chan os.Signal, stopch chan struct{}) {
	for {
		select {
		case <-stopch:
			return
		case osSig, ok := <-sigch:
			if !ok {
				return
			}
			s, err := Resolve(osSig)
			if err != nil {
				continue
			}
			r.mu.Lock()
			if r.blocked[s] > 0 {
				r.pending[s] = true
				r.mu.Unlock()
				continue
			}
			r.mu.Unlock()
			r.deliver(s)
		}
	}
}

// deliver routes one arrival of s through its current reaction. The registry
// lock is not held while handlers run; they may re-enter the registry.
func (r *Registry) deliver(s Signal) {
	r.mu.Lock()
	reaction := r.entryLocked(s).reaction.clone()
	sched := r.sched
	r.mu.Unlock()

	switch reaction.kind {
	case KindCatch:
		r.runChain(s, reaction.chain)
	case KindBridged:
		if sched == nil {
			r.reportDelivery(s, ErrBridgeUnavailable)
			return
		}
		cb := reaction.bridged
		if err := sched.Schedule(func() { cb(s) }); err != nil {
			r.reportDelivery(s, err)
		}
	case KindIgnore:
		// dropped, as the OS would
	case KindDefault:
		r.redeliverDefault(s)
	}
}

// runChain runs every entry in order. An entry failing or panicking does not
// stop its siblings; collected errors are reported together.
func (r *Registry) runChain(s Signal, chain []chainEntry) {
	ctx := context.Background()
	var errs []error
	for _, ce := range chain {
		fn := ce.fn
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					errs = append(errs, fmt.Errorf("sigward: handler panic for %v: %v", s, rec))
				}
			}()
			if err := fn(ctx, s); err != nil {
				errs = append(errs, err)
			}
		}()
	}
	if agg := errors.Join(errs...); agg != nil {
		r.reportDelivery(s, agg)
	}
}

// redeliverDefault hands a held arrival of s back to the OS. The runtime
// registration has already been reset, so re-raising produces the default
// action.
func (r *Registry) redeliverDefault(s Signal) {
	_ = unix.Kill(unix.Getpid(), s.osSignal())
}

func (r *Registry) reportDelivery(s Signal, err error) {
	r.mu.Lock()
	hook := r.onDelivery
	logger := r.logger
	r.mu.Unlock()

	if hook != nil {
		hook(s, err)
		return
	}
	logger.Error("signal delivery failed", "signal", s.Name(), "error", err)
}

func checkReaction(reaction Reaction) error {
	if reaction.kind == KindCatch && len(reaction.chain) == 0 {
		return ErrNoHandlers
	}
	return nil
}

func checkCatchable(sigs []Signal) error {
	for _, s := range sigs {
		if err := validSignal(s); err != nil {
			return err
		}
		if !Catchable(s) {
			return fmt.Errorf("%w: %v", ErrUncatchable, s.Name())
		}
	}
	return nil
}
