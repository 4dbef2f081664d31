//go:build unix

package sigward

import "context"

// Handler is one entry in a signal's handler chain.
type Handler func(ctx context.Context, sig Signal) error

// Kind discriminates the active form of a [Reaction].
type Kind uint8

const (
	// KindDefault lets the OS take its default action for the signal.
	KindDefault Kind = iota
	// KindIgnore discards deliveries of the signal.
	KindIgnore
	// KindCatch runs the reaction's handler chain on delivery.
	KindCatch
	// KindBridged schedules a callback on the attached [Scheduler]; see
	// [Registry.Async].
	KindBridged
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindIgnore:
		return "ignore"
	case KindCatch:
		return "catch"
	case KindBridged:
		return "bridged"
	default:
		return "invalid"
	}
}

// Token identifies one chain entry for [Registry.Unchain].
type Token struct {
	sig Signal
	id  uint64
}

type chainEntry struct {
	id uint64
	fn Handler
}

// Reaction is what happens when a signal is delivered: exactly one of the
// default OS action, ignoring the delivery, running a handler chain, or
// scheduling a bridged callback. A catch reaction never holds an empty chain;
// removing the last entry degrades the signal to the default action.
type Reaction struct {
	kind    Kind
	chain   []chainEntry
	bridged func(Signal)
}

var (
	// DefaultAction is the reaction that restores the OS default behavior.
	DefaultAction = Reaction{kind: KindDefault}
	// IgnoreAction is the reaction that discards deliveries.
	IgnoreAction = Reaction{kind: KindIgnore}
)

// CatchWith builds a catch reaction whose chain runs the given handlers in
// order.
func CatchWith(handlers ...Handler) Reaction {
	chain := make([]chainEntry, 0, len(handlers))
	for _, fn := range handlers {
		chain = append(chain, chainEntry{fn: fn})
	}
	return Reaction{kind: KindCatch, chain: chain}
}

func bridgedReaction(cb func(Signal)) Reaction {
	return Reaction{kind: KindBridged, bridged: cb}
}

// Kind returns the active form of the reaction.
func (r Reaction) Kind() Kind { return r.kind }

// ChainLen returns the number of entries in the handler chain, zero for
// non-catch reactions.
func (r Reaction) ChainLen() int { return len(r.chain) }

// Equal reports whether two reactions have the same form and, for catch
// reactions, the same chain entries.
func (r Reaction) Equal(o Reaction) bool {
	if r.kind != o.kind || len(r.chain) != len(o.chain) {
		return false
	}
	for i := range r.chain {
		if r.chain[i].id != o.chain[i].id {
			return false
		}
	}
	return true
}

func (r Reaction) clone() Reaction {
	out := r
	if r.chain != nil {
		out.chain = append([]chainEntry(nil), r.chain...)
	}
	return out
}

// Position says where [Registry.Chain] inserts a handler relative to the
// existing chain.
type Position uint8

const (
	// Before inserts at the head of the chain; the handler runs first.
	Before Position = iota
	// After appends at the tail of the chain; the handler runs last.
	After
)

func (p Position) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}
