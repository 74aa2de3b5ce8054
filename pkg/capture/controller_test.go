package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justingardner/pgl/pkg/events"
)

func TestControllerStartsRunning(t *testing.T) {
	c := NewController()
	if got := c.State(); got != StateRunning {
		t.Fatalf("State() = %v, want %v", got, StateRunning)
	}
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}

func TestControllerPauseResume(t *testing.T) {
	c := NewController()
	c.Pause()
	if got := c.State(); got != StatePaused {
		t.Fatalf("State() = %v, want %v", got, StatePaused)
	}

	released := make(chan error, 1)
	go func() { released <- c.Wait(context.Background()) }()

	select {
	case err := <-released:
		t.Fatalf("Wait returned %v while paused", err)
	case <-time.After(50 * time.Millisecond):
	}

	c.Resume()
	select {
	case err := <-released:
		if err != nil {
			t.Fatalf("Wait() = %v after resume, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Resume")
	}
}

func TestControllerKillPropagatesError(t *testing.T) {
	c := NewController()
	boom := errors.New("tap lost")
	c.Kill(boom)
	c.Kill(errors.New("ignored"))

	if got := c.State(); got != StateStopping {
		t.Fatalf("State() = %v, want %v", got, StateStopping)
	}
	if err := c.Wait(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Wait() = %v, want %v", err, boom)
	}
	if err := c.Err(); !errors.Is(err, boom) {
		t.Fatalf("Err() = %v, want %v", err, boom)
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("Done channel not closed after Kill")
	}
}

func TestControllerKillWithoutError(t *testing.T) {
	c := NewController()
	c.Kill(nil)
	if err := c.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() = %v, want context.Canceled", err)
	}
}

func TestControllerWaitHonoursContext(t *testing.T) {
	c := NewController()
	c.Pause()

	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan error, 1)
	go func() { released <- c.Wait(ctx) }()

	cancel()
	select {
	case err := <-released:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Wait() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after context cancel")
	}

	if got := c.State(); got != StateStopping {
		t.Fatalf("State() = %v after context cancel, want %v", got, StateStopping)
	}
}

func TestControllerGateDropsWhilePaused(t *testing.T) {
	c := NewController()
	var seen int
	cb := c.Gate(func(events.Event) { seen++ })

	cb(events.Event{Type: events.TypeKeyDown})
	c.Pause()
	cb(events.Event{Type: events.TypeKeyDown})
	c.Resume()
	cb(events.Event{Type: events.TypeKeyDown})
	c.Kill(nil)
	cb(events.Event{Type: events.TypeKeyDown})

	if seen != 2 {
		t.Fatalf("gated callback ran %d times, want 2", seen)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateRunning:  "running",
		StatePaused:   "paused",
		StateStopping: "stopping",
	} {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
