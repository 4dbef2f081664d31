//go:build unix

package sigward_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweston/sigward"
)

// The alarm has whole-second granularity, so these tests are slow by nature.

func TestTimeoutExpires(t *testing.T) {
	alarm := mustLookup(t, "SIGALRM")
	r := newTestRegistry(t, []sigward.Signal{alarm})

	before, err := r.Get(alarm)
	require.NoError(t, err)

	start := time.Now()
	err = r.WithTimeout(1, func(ctx context.Context) error {
		// would take 5 seconds, but observes cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	var te *sigward.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "SIGALRM", te.Message)
	assert.True(t, te.Timeout())
	assert.WithinDuration(t, start.Add(time.Second), time.Now(), 2*time.Second)

	// the alarm signal's disposition was restored
	after, err := r.Get(alarm)
	require.NoError(t, err)
	assert.True(t, before.Equal(after))

	// the deadline was released: an unrelated deadline fires independently
	err = r.WithTimeout(1, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorAs(t, err, &te)
}

func TestTimeoutCompletesEarly(t *testing.T) {
	alarm := mustLookup(t, "SIGALRM")
	r := newTestRegistry(t, []sigward.Signal{alarm})

	start := time.Now()
	err := r.WithTimeout(5, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	// The alarm was disarmed on the early exit; were it not, the expiry
	// would land on the restored default disposition and kill the process.
	time.Sleep(100 * time.Millisecond)
}

func TestTimeoutPropagatesBodyError(t *testing.T) {
	alarm := mustLookup(t, "SIGALRM")
	r := newTestRegistry(t, []sigward.Signal{alarm})

	errBody := assert.AnError
	err := r.WithTimeout(5, func(ctx context.Context) error { return errBody })
	assert.ErrorIs(t, err, errBody)
}

func TestNestedTimeoutRejected(t *testing.T) {
	alarm := mustLookup(t, "SIGALRM")
	r := newTestRegistry(t, []sigward.Signal{alarm})

	var inner error
	err := r.WithTimeout(5, func(ctx context.Context) error {
		inner = r.WithTimeout(1, func(context.Context) error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, sigward.ErrDeadlineArmed)
}

func TestTimeoutCustomMessage(t *testing.T) {
	alarm := mustLookup(t, "SIGALRM")
	r := newTestRegistry(t, []sigward.Signal{alarm})

	err := r.WithTimeout(1, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, sigward.WithTimeoutMessage("backup did not finish"))

	var te *sigward.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "backup did not finish", te.Message)
}
