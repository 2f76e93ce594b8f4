package session

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// timeoutContext reports context.DeadlineExceeded when its clock timer
// fires and context.Canceled when the parent is done or cancel is called
// first, unlike context.WithCancel (which only ever reports Canceled).
type timeoutContext struct {
	context.Context
	done chan struct{}

	mu  sync.Mutex
	err error
}

func (c *timeoutContext) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	c.err = err
	close(c.done)
}

func (c *timeoutContext) Done() <-chan struct{} { return c.done }

func (c *timeoutContext) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// withClockTimeout derives a context that is cancelled either when parent
// is cancelled or when d elapses on clock, whichever comes first, and
// whose Err() distinguishes the two: context.DeadlineExceeded when clock
// fired first, context.Canceled otherwise. Built on quartz.Clock so
// C4/C7's suspension-point timeouts are deterministically advanceable
// under a quartz.Mock in tests instead of depending on real wall-clock
// sleeps.
func withClockTimeout(parent context.Context, clock quartz.Clock, d time.Duration) (context.Context, context.CancelFunc) {
	tc := &timeoutContext{Context: parent, done: make(chan struct{})}
	timer := clock.AfterFunc(d, func() { tc.finish(context.DeadlineExceeded) })

	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			tc.finish(parent.Err())
		case <-stopWatch:
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			timer.Stop()
			close(stopWatch)
			tc.finish(context.Canceled)
		})
	}
	return tc, cancel
}
