// Package intertask runs requests on another execution context and waits
// for their acknowledgement.
package intertask

import (
	"errors"
	"sync"
)

var ErrStopped = errors.New("intertask: serving context stopped")

// Caller posts request records to the context that serves Requests and
// blocks each requester until its request has run.
type Caller struct {
	calls    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewCaller(backlog int) *Caller {
	return &Caller{
		calls: make(chan func(), backlog),
		done:  make(chan struct{}),
	}
}

// Requests is the channel the serving context takes requests from.
func (c *Caller) Requests() <-chan func() { return c.calls }

// Done is closed once Stop has been called.
func (c *Caller) Done() <-chan struct{} { return c.done }

// Call runs fn on the serving context and returns its error. It returns
// ErrStopped if the serving context stops before fn completes.
func (c *Caller) Call(fn func() error) error {
	ack := make(chan error, 1)
	req := func() { ack <- fn() }
	select {
	case c.calls <- req:
	case <-c.done:
		return ErrStopped
	}
	select {
	case err := <-ack:
		return err
	case <-c.done:
		return ErrStopped
	}
}

// Stop releases every waiting requester. Requests still queued are not run.
func (c *Caller) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Serve runs requests until done is closed. It is the loop for contexts that
// have nothing else to do.
func Serve(calls <-chan func(), done <-chan struct{}) {
	for {
		select {
		case fn := <-calls:
			fn()
		case <-done:
			return
		}
	}
}
