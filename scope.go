//go:build unix

package sigward

import "golang.org/x/exp/slices"

// Conflict describes a restore that found the signal's disposition changed
// by some other actor while the frame was open. The saved reaction is forced
// regardless ("last exit wins"); the conflict exists for reporting.
type Conflict struct {
	Signal Signal
	// Expected is the generation recorded when the frame installed its
	// override; Observed is the generation found at restore.
	Expected uint64
	Observed uint64
	// OpenedAt records where the frame was opened, with enclosing open
	// frames reachable through its parent link.
	OpenedAt *Callsite
}

type savedState struct {
	reaction Reaction
	// expectGen is the generation this frame installed; restoreGen is the
	// one it displaced, put back on restore.
	expectGen  uint64
	restoreGen uint64
}

// Frame is one open scoped override, created by [Registry.Override] and
// consumed exactly once by [Frame.Restore].
type Frame struct {
	r      *Registry
	order  []Signal
	saved  map[Signal]savedState
	opened *Callsite
	done   bool
}

// Override installs reaction for the given signals and returns a frame that
// restores what was installed before. Frames over the same signal nest and
// must restore in reverse order of entry; [Registry.With] enforces that for
// you.
func (r *Registry) Override(reaction Reaction, sigs ...Signal) (*Frame, error) {
	if err := checkReaction(reaction); err != nil {
		return nil, err
	}
	if err := checkCatchable(sigs); err != nil {
		return nil, err
	}

	f := &Frame{
		r:     r,
		saved: make(map[Signal]savedState, len(sigs)),
	}

	r.mu.Lock()
	var parent *Callsite
	if n := len(r.frames); n > 0 {
		parent = r.frames[n-1].opened
	}
	r.mu.Unlock()
	f.opened = captureCallsite(parent, 1)

	for _, s := range sigs {
		if _, dup := f.saved[s]; dup {
			continue
		}
		prev, prevGen, gen, err := r.swap(s, reaction)
		if err != nil {
			f.Restore()
			return nil, err
		}
		f.order = append(f.order, s)
		f.saved[s] = savedState{reaction: prev, expectGen: gen, restoreGen: prevGen}
	}

	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	return f, nil
}

// Restore puts back the reactions saved at entry, in reverse order of their
// capture. If a signal's generation no longer matches the one recorded when
// the override was installed, the [Conflict] is reported through the
// registry's conflict hook and the saved reaction is forced anyway. Restore
// is a no-op after the first call.
func (f *Frame) Restore() {
	if f == nil || f.done {
		return
	}
	f.done = true
	r := f.r

	r.mu.Lock()
	if idx := slices.Index(r.frames, f); idx >= 0 {
		r.frames = slices.Delete(r.frames, idx, idx+1)
	}
	r.mu.Unlock()

	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.order[i]
		st := f.saved[s]

		r.mu.Lock()
		e := r.entryLocked(s)
		var conflict *Conflict
		if e.gen != st.expectGen {
			conflict = &Conflict{
				Signal:   s,
				Expected: st.expectGen,
				Observed: e.gen,
				OpenedAt: f.opened,
			}
		}
		r.blockLocked(s)
		r.installLocked(s, e, st.reaction)
		e.gen = st.restoreGen
		due := r.unblockLocked(s)
		hook := r.onConflict
		logger := r.logger
		r.mu.Unlock()

		if due {
			r.deliver(s)
		}
		if conflict != nil {
			if hook != nil {
				hook(*conflict)
			} else {
				logger.Warn("override restore conflict",
					"signal", s.Name(),
					"expected_gen", conflict.Expected,
					"observed_gen", conflict.Observed,
					"opened_at", f.opened.String())
			}
		}
	}
}

// With runs fn with reaction installed for the given signals, restoring the
// previous dispositions on every exit path, including panics.
func (r *Registry) With(reaction Reaction, fn func() error, sigs ...Signal) error {
	f, err := r.Override(reaction, sigs...)
	if err != nil {
		return err
	}
	defer f.Restore()
	return fn()
}
