//go:build unix

package sigward_test

import (
	"context"
	"fmt"
	"log"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aweston/sigward"
)

// Catch SIGUSR1 for the duration of one critical section using the
// package-level registry, then hand the signal back.
func Example() {
	usr1, err := sigward.Lookup("SIGUSR1")
	if err != nil {
		log.Fatal(err)
	}

	delivered := make(chan struct{})
	handle := func(ctx context.Context, s sigward.Signal) error {
		fmt.Println("caught", s)
		close(delivered)
		return nil
	}

	prev, err := sigward.Set(sigward.CatchWith(handle), usr1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("previously:", prev[usr1].Kind())

	// Pretend some other part of the process sends us the signal.
	if err := unix.Kill(unix.Getpid(), syscall.SIGUSR1); err != nil {
		log.Fatal(err)
	}
	<-delivered

	// Done with the critical section; drop the signal from now on.
	if _, err := sigward.Set(sigward.IgnoreAction, usr1); err != nil {
		log.Fatal(err)
	}

	// Output:
	// previously: default
	// caught SIGUSR1
}

// Bound a slow operation by a wall-clock deadline.
func ExampleWithTimeout() {
	err := sigward.WithTimeout(1, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Minute):
			return nil
		}
	}, sigward.WithTimeoutMessage("operation took too long"))
	fmt.Println(err)

	// Output:
	// operation took too long
}
