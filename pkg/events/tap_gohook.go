//go:build !darwin

package events

import (
	"sync"

	hook "github.com/robotn/gohook"
)

// gohookProvider is the portable fallback backend, built on the gohook
// global hook. It can observe events but not drop them, so suppression is
// advisory on this backend.
type gohookProvider struct{}

func defaultProvider() TapProvider {
	return gohookProvider{}
}

func (gohookProvider) ListenOnly() bool { return true }

func (gohookProvider) Open(mask Mask, handle Handler) (TapSession, error) {
	s := &gohookSession{
		mask:   mask,
		handle: handle,
		events: hook.Start(),
		stopc:  make(chan struct{}),
	}
	return s, nil
}

type gohookSession struct {
	mask   Mask
	handle Handler
	events chan hook.Event

	stopc    chan struct{}
	stopOnce sync.Once
}

// Run drains the gohook channel until Stop ends the hook.
func (s *gohookSession) Run() error {
	for {
		select {
		case <-s.stopc:
			return nil
		case ev, ok := <-s.events:
			if !ok {
				return nil
			}
			raw, ok := rawFromGohook(ev)
			if !ok || !s.mask.Contains(raw.Kind) {
				continue
			}
			// The verdict is ignored: gohook cannot drop events.
			s.handle(raw)
		}
	}
}

func (s *gohookSession) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopc)
		hook.End()
	})
}

func (s *gohookSession) Close() error {
	return nil
}

// rawFromGohook maps a gohook event onto the provider-neutral Raw. gohook
// does not expose a stable modifier mask or keyboard type, so those fields
// stay zero. Drags report as left drags; gohook does not say which button
// is held.
func rawFromGohook(ev hook.Event) (Raw, bool) {
	raw := Raw{TimestampNS: uint64(ev.When.UnixNano())}

	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		raw.Kind = KindKeyDown
		raw.KeyCode = int(ev.Rawcode)
	case hook.KeyUp:
		raw.Kind = KindKeyUp
		raw.KeyCode = int(ev.Rawcode)
	case hook.MouseDown:
		raw.Kind = buttonKind(ev.Button, true)
		raw.Button = buttonIndex(ev.Button)
		raw.ClickState = int(ev.Clicks)
		raw.X = float64(ev.X)
		raw.Y = float64(ev.Y)
	case hook.MouseUp:
		raw.Kind = buttonKind(ev.Button, false)
		raw.Button = buttonIndex(ev.Button)
		raw.ClickState = int(ev.Clicks)
		raw.X = float64(ev.X)
		raw.Y = float64(ev.Y)
	case hook.MouseMove:
		raw.Kind = KindMouseMoved
		raw.X = float64(ev.X)
		raw.Y = float64(ev.Y)
	case hook.MouseDrag:
		raw.Kind = KindLeftMouseDragged
		raw.X = float64(ev.X)
		raw.Y = float64(ev.Y)
	default:
		return Raw{}, false
	}
	return raw, true
}

// gohook numbers buttons 1 (left), 2 (right), 3+ (other).
func buttonKind(button uint16, down bool) Kind {
	switch button {
	case 1:
		if down {
			return KindLeftMouseDown
		}
		return KindLeftMouseUp
	case 2:
		if down {
			return KindRightMouseDown
		}
		return KindRightMouseUp
	default:
		if down {
			return KindOtherMouseDown
		}
		return KindOtherMouseUp
	}
}

func buttonIndex(button uint16) int {
	switch button {
	case 1:
		return 0
	case 2:
		return 1
	default:
		return 2
	}
}
