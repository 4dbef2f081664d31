package sigward

import (
	"context"
	"sync"
)

// Loop is a minimal cooperative scheduler: callbacks are enqueued from any
// goroutine with [Loop.Schedule] and run one at a time, in order, on the
// goroutine that called [Loop.Run]. It satisfies [Scheduler], for
// applications that don't already run an event loop of their own.
type Loop struct {
	mu       sync.Mutex
	queue    chan func()
	stop     chan error
	stopped  bool
	inflight uint
	idle     chan struct{}
}

// NewLoop creates a loop. Nothing runs until [Loop.Run] is called.
func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 128),
		stop:  make(chan error, 1),
	}
}

// Schedule enqueues fn to run on the loop's goroutine. It is safe to call
// from any goroutine, including from inside a running callback.
func (l *Loop) Schedule(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrSchedulerStopped
	}
	l.inflight++
	l.mu.Unlock()

	l.queue <- fn
	return nil
}

// Run processes scheduled callbacks until [Loop.Stop] is called, then
// returns the error passed to Stop. Callbacks for which Schedule already
// returned nil when Stop was called still run before Run returns.
func (l *Loop) Run() error {
	for {
		// The stopping condition has priority over queued work.
		select {
		case err := <-l.stop:
			return l.drain(err)
		default:
		}

		select {
		case fn := <-l.queue:
			fn()
			l.finish()
		case err := <-l.stop:
			return l.drain(err)
		}
	}
}

// Stop makes [Loop.Run] return err once the queue is drained. Later calls to
// Schedule fail with [ErrSchedulerStopped].
func (l *Loop) Stop(err error) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.mu.Unlock()

	select {
	case l.stop <- err:
	default:
	}
}

// Wait returns a channel that is closed once every scheduled callback has
// run. If nothing is outstanding, the returned channel is already closed.
func (l *Loop) Wait() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inflight == 0 {
		return alwaysClosed
	}
	if l.idle == nil {
		l.idle = make(chan struct{})
	}
	return l.idle
}

// TryWait waits for scheduled callbacks to finish, returning early with
// ctx.Err() if the context is canceled first.
//
// If the context is already canceled when TryWait is called, this method
// will always return the context's error.
func (l *Loop) TryWait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.Wait():
			return nil
		}
	}
}

// Drained reports whether every scheduled callback has run, i.e. if waiting
// would immediately complete.
func (l *Loop) Drained() bool {
	return isClosed(l.Wait())
}

// drain runs until inflight reaches zero rather than until the queue looks
// empty: a Schedule that has already committed (incremented inflight and
// returned nil) may still be between its accounting and its send, and
// checking the queue alone would strand that callback.
func (l *Loop) drain(err error) error {
	for {
		l.mu.Lock()
		outstanding := l.inflight
		l.mu.Unlock()
		if outstanding == 0 {
			return err
		}
		fn := <-l.queue
		fn()
		l.finish()
	}
}

func (l *Loop) finish() {
	l.mu.Lock()
	l.inflight--
	if l.inflight == 0 && l.idle != nil {
		close(l.idle)
		l.idle = nil
	}
	l.mu.Unlock()
}

// unexported helpers relating to channels

var alwaysClosed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func isClosed(c <-chan struct{}) bool {
	if c == nil {
		return false
	}

	select {
	case <-c:
		return true
	default:
		return false
	}
}
