package capture

import (
	"context"
	"sync"

	"github.com/justingardner/pgl/pkg/events"
)

// State describes the controller's lifecycle position.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateStopping
)

// String returns the textual state for diagnostics.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "running"
	}
}

// Controller coordinates pause and kill signals for a capture session.
// The capture thread keeps running while paused; Gate simply stops
// forwarding events to the consumer until Resume.
type Controller struct {
	mu       sync.Mutex
	paused   bool
	stopping bool
	stopErr  error
	signal   chan struct{}
	done     chan struct{}
}

// NewController constructs a controller in the running state.
func NewController() *Controller {
	return &Controller{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Pause stops event delivery through Gate until Resume.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume clears a paused state and notifies waiters.
func (c *Controller) Resume() {
	c.mu.Lock()
	wasPaused := c.paused
	c.paused = false
	c.mu.Unlock()
	if wasPaused {
		c.notify()
	}
}

// Kill requests the session to stop and propagates an optional error.
// Safe to call from the capture thread.
func (c *Controller) Kill(err error) {
	c.mu.Lock()
	first := !c.stopping
	c.stopping = true
	if err != nil && c.stopErr == nil {
		c.stopErr = err
	}
	c.mu.Unlock()
	if first {
		close(c.done)
	}
	c.notify()
}

// Done is closed once Kill has been called.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err returns the error passed to Kill, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopErr
}

// Gate wraps a callback so that events are dropped while the controller
// is paused or stopping.
func (c *Controller) Gate(next events.Callback) events.Callback {
	return func(ev events.Event) {
		c.mu.Lock()
		blocked := c.paused || c.stopping
		c.mu.Unlock()
		if blocked || next == nil {
			return
		}
		next(ev)
	}
}

// Wait blocks while the controller is paused. It returns nil once the
// controller is running, or the stop error once it is stopping.
func (c *Controller) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		paused := c.paused
		stopping := c.stopping
		stopErr := c.stopErr
		c.mu.Unlock()

		if stopping {
			if stopErr != nil {
				return stopErr
			}
			if ctx != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return context.Canceled
		}
		if !paused {
			return nil
		}

		if ctx == nil {
			<-c.signal
			continue
		}

		select {
		case <-ctx.Done():
			c.Kill(ctx.Err())
			return ctx.Err()
		case <-c.signal:
			continue
		}
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.stopping:
		return StateStopping
	case c.paused:
		return StatePaused
	default:
		return StateRunning
	}
}

func (c *Controller) notify() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}
