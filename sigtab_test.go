//go:build unix

package sigward_test

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweston/sigward"
)

func TestLookupForms(t *testing.T) {
	t.Parallel()

	byName, err := sigward.Lookup("SIGINT")
	require.NoError(t, err)
	assert.Equal(t, "SIGINT", byName.Name())
	assert.Equal(t, int(syscall.SIGINT), byName.Number())
	assert.Equal(t, "SIGINT", byName.String())

	byNum, err := sigward.LookupNumber(int(syscall.SIGINT))
	require.NoError(t, err)
	assert.Equal(t, byName, byNum)

	for _, v := range []any{byName, "SIGINT", int(syscall.SIGINT), syscall.SIGINT} {
		got, err := sigward.Resolve(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, byName, got)
	}

	_, err = sigward.Lookup("SIGNOPE")
	assert.ErrorIs(t, err, sigward.ErrUnknownSignal)
	_, err = sigward.LookupNumber(0)
	assert.ErrorIs(t, err, sigward.ErrUnknownSignal)
	_, err = sigward.Resolve(3.14)
	assert.ErrorIs(t, err, sigward.ErrUnknownSignal)

	assert.True(t, sigward.Exists("SIGTERM"))
	assert.False(t, sigward.Exists("SIGNOPE"))
}

func TestCatchable(t *testing.T) {
	t.Parallel()

	term, err := sigward.Lookup("SIGTERM")
	require.NoError(t, err)
	assert.True(t, sigward.Catchable(term))

	for _, name := range []string{"SIGKILL", "SIGSTOP"} {
		s, err := sigward.Lookup(name)
		require.NoError(t, err)
		assert.False(t, sigward.Catchable(s), name)
	}
}

func TestClassificationSets(t *testing.T) {
	t.Parallel()

	contains := func(sigs []sigward.Signal, name string) bool {
		for _, s := range sigs {
			if s.Name() == name {
				return true
			}
		}
		return false
	}
	ascending := func(sigs []sigward.Signal) bool {
		for i := 1; i < len(sigs); i++ {
			if sigs[i-1].Number() >= sigs[i].Number() {
				return false
			}
		}
		return true
	}

	terminating := sigward.TerminatingSignals()
	assert.True(t, contains(terminating, "SIGTERM"))
	assert.True(t, contains(terminating, "SIGINT"))
	assert.False(t, contains(terminating, "SIGKILL"))
	assert.True(t, ascending(terminating))

	suspending := sigward.SuspendingSignals()
	assert.True(t, contains(suspending, "SIGTSTP"))
	assert.True(t, ascending(suspending))

	terminal := sigward.TerminalSignals()
	assert.True(t, contains(terminal, "SIGHUP"))
	assert.True(t, contains(terminal, "SIGWINCH"))
	assert.True(t, ascending(terminal))
}
