package capture

import (
	"sync"
	"time"

	"github.com/justingardner/pgl/pkg/events"
)

// Buffer queues intercepted events for later retrieval and tracks which
// keys are currently held down. Its Callback feeds it from the capture
// thread; every accessor is safe to call concurrently from the
// application's goroutines.
type Buffer struct {
	mu       sync.Mutex
	keyboard []events.Event
	mouse    []events.Event
	// pressed maps key code to the timestamp of its key-down.
	pressed    map[int]float64
	suppressed func(int) bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{pressed: make(map[int]float64)}
}

// SuppressionFilter registers fn, consulted for each key event. Keys it
// reports suppressed still update the pressed-key state but are not
// queued. Pass the listener's IsSuppressed to keep the buffer in step with
// the active suppression set.
func (b *Buffer) SuppressionFilter(fn func(code int) bool) {
	b.mu.Lock()
	b.suppressed = fn
	b.mu.Unlock()
}

// Callback returns the function to register with the listener.
func (b *Buffer) Callback() events.Callback {
	return b.observe
}

func (b *Buffer) observe(ev events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case ev.Type == events.TypeKeyDown:
		b.pressed[ev.KeyCode] = ev.Timestamp
		if !b.suppressedLocked(ev.KeyCode) {
			b.keyboard = append(b.keyboard, ev)
		}
	case ev.Type == events.TypeKeyUp:
		delete(b.pressed, ev.KeyCode)
		if !b.suppressedLocked(ev.KeyCode) {
			b.keyboard = append(b.keyboard, ev)
		}
	case ev.IsMouse():
		b.mouse = append(b.mouse, ev)
	default:
		// Unclassified events carry only a timestamp; nothing to queue.
	}
}

func (b *Buffer) suppressedLocked(code int) bool {
	return b.suppressed != nil && b.suppressed(code)
}

// NextKeyboard pops the oldest queued keyboard event.
func (b *Buffer) NextKeyboard() (events.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.keyboard) == 0 {
		return events.Event{}, false
	}
	ev := b.keyboard[0]
	b.keyboard = b.keyboard[1:]
	return ev, true
}

// DrainKeyboard returns all queued keyboard events and clears the queue.
func (b *Buffer) DrainKeyboard() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.keyboard
	b.keyboard = nil
	return out
}

// NextMouse pops the oldest queued mouse event.
func (b *Buffer) NextMouse() (events.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.mouse) == 0 {
		return events.Event{}, false
	}
	ev := b.mouse[0]
	b.mouse = b.mouse[1:]
	return ev, true
}

// DrainMouse returns all queued mouse events and clears the queue.
func (b *Buffer) DrainMouse() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.mouse
	b.mouse = nil
	return out
}

// KeyStatus returns a copy of the currently pressed keys, mapping key code
// to the timestamp of the press.
func (b *Buffer) KeyStatus() map[int]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int]float64, len(b.pressed))
	for code, ts := range b.pressed {
		out[code] = ts
	}
	return out
}

// IsKeyPressed reports whether the key is currently held down.
func (b *Buffer) IsKeyPressed(code int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pressed[code]
	return ok
}

// Clear drops all queued events and the pressed-key state.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keyboard = nil
	b.mouse = nil
	b.pressed = make(map[int]float64)
}

// Sizes reports the current keyboard and mouse queue lengths.
func (b *Buffer) Sizes() (keyboard, mouse int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keyboard), len(b.mouse)
}

// WaitForKey starts a capture session on the listener, waits for the first
// key-down event, and stops the session again. A timeout of zero or less
// waits indefinitely. The boolean result is false when the timeout elapsed
// without a key press.
func WaitForKey(l *events.Listener, timeout time.Duration) (events.Event, bool, error) {
	got := make(chan events.Event, 1)
	cb := func(ev events.Event) {
		if ev.Type != events.TypeKeyDown {
			return
		}
		select {
		case got <- ev:
		default:
		}
	}

	if err := l.Start(cb); err != nil {
		return events.Event{}, false, err
	}
	defer l.Stop()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case ev := <-got:
		return ev, true, nil
	case <-expired:
		return events.Event{}, false, nil
	}
}
