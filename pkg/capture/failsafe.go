package capture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zoobzio/clockz"

	"github.com/justingardner/pgl/pkg/events"
)

// escKeyCode is the ANSI US escape key.
const escKeyCode = 53

// DefaultFailsafeWindow is the maximum gap between two ESC presses for
// them to count as a double press.
const DefaultFailsafeWindow = 500 * time.Millisecond

// FailsafeOptions tunes the ESC escape hatch.
type FailsafeOptions struct {
	// Window is the double-press detection window. Zero means
	// DefaultFailsafeWindow.
	Window time.Duration
	// Clock supplies time for double-press detection. Zero means the real
	// clock.
	Clock clockz.Clock
	// Logger receives failsafe activity. Zero means no logging.
	Logger zerolog.Logger
}

// Failsafe watches the event stream for the escape key. A single press
// invokes disarm, releasing any suppressed keys so the keyboard works
// again. A second press within the window invokes stop, ending the
// session entirely. ESC key-down events are consumed by the failsafe and
// never reach the wrapped callback. Both hooks run on the capture thread,
// so stop must not join the capture session synchronously.
type Failsafe struct {
	disarm func()
	stop   func()
	window time.Duration
	clock  clockz.Clock
	logger zerolog.Logger

	mu        sync.Mutex
	lastPress time.Time
	armed     bool
}

// NewFailsafe builds a failsafe around the given hooks. Either hook may be
// nil, in which case that action is skipped.
func NewFailsafe(disarm, stop func(), opts FailsafeOptions) *Failsafe {
	window := opts.Window
	if window <= 0 {
		window = DefaultFailsafeWindow
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Failsafe{
		disarm: disarm,
		stop:   stop,
		window: window,
		clock:  clock,
		logger: opts.Logger,
	}
}

// Wrap returns a callback that inspects each event for the failsafe
// trigger before forwarding it to next.
func (f *Failsafe) Wrap(next events.Callback) events.Callback {
	return func(ev events.Event) {
		if ev.Type == events.TypeKeyDown && ev.KeyCode == escKeyCode {
			f.press()
			return
		}
		if next != nil {
			next(ev)
		}
	}
}

func (f *Failsafe) press() {
	now := f.clock.Now()

	f.mu.Lock()
	double := f.armed && now.Sub(f.lastPress) <= f.window
	f.lastPress = now
	f.armed = !double
	f.mu.Unlock()

	if double {
		f.logger.Warn().Msg("failsafe: double escape, stopping capture")
		if f.stop != nil {
			f.stop()
		}
		return
	}

	f.logger.Warn().Msg("failsafe: escape pressed, releasing suppressed keys")
	if f.disarm != nil {
		f.disarm()
	}
}
