//go:build unix

package sigward

// Scheduler schedules a callback to run as an ordinary unit of work on a
// cooperative scheduler's own goroutine. Schedule must be safe to call from
// outside the scheduler, and must not run fn inline.
type Scheduler interface {
	Schedule(fn func()) error
}

// AttachScheduler sets the scheduler that [Registry.Async] callbacks are
// dispatched on.
func (r *Registry) AttachScheduler(s Scheduler) {
	r.mu.Lock()
	r.sched = s
	r.mu.Unlock()
}

// Async arranges for cb to run on the attached scheduler's goroutine when
// any of the given signals is delivered, never inside the delivery context:
// the delivery path only forwards the arrival as a fixed-width marker on the
// dispatch channel, and cb is scheduled from there as a normal unit of work.
//
// Registering again for a signal replaces the previous callback. That is
// intentionally different from [Registry.Chain]: bridged callbacks belong to
// whatever event loop owns the signal, and loops swap owners rather than
// accumulate them.
//
// Async fails with [ErrBridgeUnavailable] when no scheduler is attached.
func (r *Registry) Async(cb func(Signal), sigs ...Signal) error {
	if err := checkCatchable(sigs); err != nil {
		return err
	}

	r.mu.Lock()
	if r.sched == nil {
		r.mu.Unlock()
		return ErrBridgeUnavailable
	}
	r.mu.Unlock()

	_, err := r.Set(bridgedReaction(cb), sigs...)
	return err
}
