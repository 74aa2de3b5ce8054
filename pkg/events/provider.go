package events

// Verdict is the per-event decision returned to the OS hook: allow lets the
// event propagate unmodified, suppress drops it before it reaches any other
// application.
type Verdict int

const (
	VerdictAllow Verdict = iota
	VerdictSuppress
)

// Mask selects which event kinds a tap session receives.
type Mask uint64

func maskBit(k Kind) Mask {
	return Mask(1) << uint(k)
}

// Contains reports whether the mask covers the kind.
func (m Mask) Contains(k Kind) bool {
	return m&maskBit(k) != 0
}

// With returns the mask extended with the supplied kinds.
func (m Mask) With(kinds ...Kind) Mask {
	for _, k := range kinds {
		m |= maskBit(k)
	}
	return m
}

// DefaultMask covers every kind the listener intercepts: key down/up, the
// six button press/release variants, plain motion, and left/right drags.
func DefaultMask() Mask {
	return Mask(0).With(
		KindKeyDown, KindKeyUp,
		KindLeftMouseDown, KindLeftMouseUp,
		KindRightMouseDown, KindRightMouseUp,
		KindOtherMouseDown, KindOtherMouseUp,
		KindMouseMoved, KindLeftMouseDragged, KindRightMouseDragged,
	)
}

// Handler is the per-event entry point a tap session invokes synchronously
// for every matched raw event. The returned verdict controls propagation;
// the handler must therefore complete before the session hands the event
// back to the OS.
type Handler func(Raw) Verdict

// TapProvider abstracts the OS global-hook primitive. Open creates and
// enables a hook for the mask, wiring the handler as its entry point; it is
// called on the capture goroutine, which is locked to an OS thread for the
// lifetime of the session.
type TapProvider interface {
	Open(mask Mask, handle Handler) (TapSession, error)
}

// TapSession is one installed hook. Run binds the hook to the calling
// thread's event loop and blocks until Stop is called; Stop is idempotent
// and safe from any goroutine. Close disables and releases the hook and
// must only run after Run has returned, so teardown never races an
// in-flight handler invocation.
type TapSession interface {
	Run() error
	Stop()
	Close() error
}

// ListenOnlyProvider is implemented by backends that can observe but not
// drop events. The listener logs a warning at start when suppression will
// be advisory only.
type ListenOnlyProvider interface {
	ListenOnly() bool
}
