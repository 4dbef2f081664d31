//go:build linux

package sigward

import "golang.org/x/sys/unix"

// The kernel keeps one alarm per process; arming replaces any previous alarm
// and zero disarms.

func (r *Registry) armAlarm(seconds uint) error {
	_, err := unix.Alarm(seconds)
	return err
}

func (r *Registry) disarmAlarm() {
	_, _ = unix.Alarm(0)
}
