//go:build unix

package sigward

import "golang.org/x/exp/slices"

// BlockFrame is one open blocking scope, created by [Registry.Block] and
// consumed exactly once by [BlockFrame.Unblock].
type BlockFrame struct {
	r    *Registry
	sigs []Signal
	done bool
}

// Block suppresses delivery of the given signals until the returned frame is
// unblocked. Arrivals while blocked are held, not lost; multiple arrivals of
// the same signal coalesce into one pending occurrence, matching standard
// signal semantics, and this package does not try to "fix" that.
//
// Goroutines migrate OS threads, so a thread-level kernel mask cannot cover
// the process; blocking instead routes the signals through the registry's
// dispatch channel and holds them there until the scope ends.
func (r *Registry) Block(sigs ...Signal) (*BlockFrame, error) {
	if err := checkCatchable(sigs); err != nil {
		return nil, err
	}

	f := &BlockFrame{r: r}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	for _, s := range sigs {
		if slices.Contains(f.sigs, s) {
			continue
		}
		r.blockLocked(s)
		f.sigs = append(f.sigs, s)
	}
	r.mu.Unlock()
	return f, nil
}

// Unblock releases the scope and delivers every signal that arrived while it
// was blocked: exactly once per pending signal, in ascending numeric order,
// using the reaction current at this moment rather than the one active at
// block time. Unblock is a no-op after the first call.
func (f *BlockFrame) Unblock() {
	if f == nil || f.done {
		return
	}
	f.done = true
	r := f.r

	var due []Signal
	r.mu.Lock()
	for _, s := range f.sigs {
		if r.unblockLocked(s) {
			due = append(due, s)
		}
	}
	slices.SortFunc(due, func(a, b Signal) bool { return a.num < b.num })
	r.mu.Unlock()

	for _, s := range due {
		r.deliver(s)
	}
}

// Blocked reports whether delivery of s is currently suppressed.
func (r *Registry) Blocked(s Signal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked[s] > 0
}

// WhileBlocked runs fn with the given signals blocked, releasing the block
// on every exit path, including panics.
func (r *Registry) WhileBlocked(fn func() error, sigs ...Signal) error {
	f, err := r.Block(sigs...)
	if err != nil {
		return err
	}
	defer f.Unblock()
	return fn()
}
