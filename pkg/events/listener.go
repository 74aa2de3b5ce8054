package events

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/justingardner/pgl/pkg/permissions"
)

// Callback receives every intercepted event, suppressed or not. It runs
// synchronously on the capture thread: the OS event pipeline is blocked for
// its duration, so handlers must stay short.
type Callback func(Event)

// Options configures a Listener. Zero values select the platform tap
// provider, the accessibility probe, the full event mask, and a disabled
// logger.
type Options struct {
	Provider TapProvider
	Trusted  func() bool
	Mask     Mask
	Logger   zerolog.Logger
}

// tapOwner enforces the at-most-one-active-session invariant. The OS tap is
// a session-global resource, so ownership is tracked per process rather
// than per Listener.
var tapOwner atomic.Bool

// Listener is the lifecycle state machine for one capture session. All
// methods are safe for concurrent use from the application's goroutines;
// event delivery happens on a separate capture goroutine owned by the
// listener.
type Listener struct {
	opts     Options
	suppress *SuppressionSet

	mu      sync.Mutex
	running bool
	loop    *captureLoop
}

// NewListener constructs a stopped listener.
func NewListener(opts Options) *Listener {
	if opts.Provider == nil {
		opts.Provider = defaultProvider()
	}
	if opts.Trusted == nil {
		opts.Trusted = permissions.AccessibilityTrusted
	}
	if opts.Mask == 0 {
		opts.Mask = DefaultMask()
	}
	return &Listener{
		opts:     opts,
		suppress: NewSuppressionSet(),
	}
}

// Start installs the tap and begins delivering events to cb. It fails with
// ErrNilCallback for a nil callback, ErrAlreadyRunning if this or another
// listener owns the tap, ErrNotTrusted if the authorization check fails,
// and ErrTapUnavailable (wrapping the provider error) if the hook cannot be
// created. On failure every side effect is rolled back and the listener
// remains stopped.
func (l *Listener) Start(cb Callback) error {
	if cb == nil {
		return ErrNilCallback
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrAlreadyRunning
	}
	if !l.opts.Trusted() {
		return ErrNotTrusted
	}
	if !tapOwner.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	loop := newCaptureLoop(l.opts.Provider, l.opts.Mask, cb, l.suppress, l.opts.Logger)
	go loop.run()

	if err := <-loop.ready; err != nil {
		tapOwner.Store(false)
		if err == ErrNotTrusted {
			return err
		}
		return fmt.Errorf("%w: %v", ErrTapUnavailable, err)
	}

	if lo, ok := l.opts.Provider.(ListenOnlyProvider); ok && lo.ListenOnly() {
		l.opts.Logger.Warn().Msg("tap backend is listen-only; suppression will not block events")
	}

	l.loop = loop
	l.running = true
	l.opts.Logger.Info().Msg("event listener started")
	return nil
}

// Stop signals the capture loop, waits for it to exit, and releases the
// tap. Once Stop returns no further callback invocations occur. Calling
// Stop on a stopped listener is a no-op.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	l.loop.stop()
	<-l.loop.done

	l.loop = nil
	l.running = false
	l.suppress.Clear()
	tapOwner.Store(false)
	l.opts.Logger.Info().Msg("event listener stopped")
}

// IsRunning reports whether a capture session is active.
func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// SetSuppressedKeys atomically replaces the set of key codes whose key
// events are dropped before reaching other applications. Valid in either
// state: a set applied while stopped takes effect at the next Start.
// Stopping clears the set. Fails with ErrTooManyKeys or ErrInvalidKeycode
// without applying any change.
func (l *Listener) SetSuppressedKeys(keys []int) error {
	if err := l.suppress.Replace(keys); err != nil {
		return err
	}
	l.opts.Logger.Info().Int("count", len(keys)).Ints("keys", keys).Msg("suppression set replaced")
	return nil
}

// SetSuppressedString replaces the suppression set with the key codes of
// the characters in s (ANSI US layout). Characters with no mapping are
// skipped and logged.
func (l *Listener) SetSuppressedString(s string) error {
	codes, unmapped := KeycodesForString(s)
	for _, ch := range unmapped {
		l.opts.Logger.Warn().Str("char", string(ch)).Msg("no key code mapping for character")
	}
	return l.SetSuppressedKeys(codes)
}

// SuppressedKeys returns the currently suppressed codes in ascending order.
func (l *Listener) SuppressedKeys() []int {
	return l.suppress.Snapshot()
}

// IsSuppressed reports whether key events for code are currently dropped.
func (l *Listener) IsSuppressed(code int) bool {
	return l.suppress.Contains(code)
}
