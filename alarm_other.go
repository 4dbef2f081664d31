//go:build unix && !linux

package sigward

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Platforms where x/sys doesn't expose the alarm syscall emulate it: a timer
// re-raises SIGALRM at expiry. Still one alarm per process, owned by the
// registry.

func (r *Registry) armAlarm(seconds uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.alarmTimer != nil {
		r.alarmTimer.Stop()
	}
	r.alarmTimer = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		_ = unix.Kill(unix.Getpid(), syscall.SIGALRM)
	})
	return nil
}

func (r *Registry) disarmAlarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.alarmTimer != nil {
		r.alarmTimer.Stop()
		r.alarmTimer = nil
	}
}
