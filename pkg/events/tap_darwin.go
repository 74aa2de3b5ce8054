//go:build darwin

package events

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>

extern CGEventRef pglTapHandler(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static Boolean pglAXTrusted(void) {
	return AXIsProcessTrusted();
}

static CFMachPortRef pglTapCreate(uintptr_t handle, CGEventMask mask) {
	return CGEventTapCreate(kCGSessionEventTap,
	                        kCGHeadInsertEventTap,
	                        kCGEventTapOptionDefault,
	                        mask,
	                        pglTapHandler,
	                        (void *)handle);
}

static CGEventMask pglMaskBit(CGEventType type) {
	return ((CGEventMask)1) << type;
}

static double pglEventX(CGEventRef event) {
	return CGEventGetLocation(event).x;
}

static double pglEventY(CGEventRef event) {
	return CGEventGetLocation(event).y;
}
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"sync"
	"unsafe"
)

// quartzProvider installs a session-level CGEventTap. The tap is created
// with kCGEventTapOptionDefault (not listen-only) so returning NULL from
// the handler actually drops the event.
type quartzProvider struct{}

func defaultProvider() TapProvider {
	return quartzProvider{}
}

func (quartzProvider) Open(mask Mask, handle Handler) (TapSession, error) {
	if C.pglAXTrusted() == C.Boolean(0) {
		return nil, ErrNotTrusted
	}

	s := &quartzSession{handler: handle}
	s.handle = cgo.NewHandle(s)

	tap := C.pglTapCreate(C.uintptr_t(s.handle), cgMask(mask))
	if tap == nil {
		s.handle.Delete()
		return nil, errors.New("CGEventTapCreate failed")
	}

	source := C.CFMachPortCreateRunLoopSource(C.kCFAllocatorDefault, tap, 0)
	if source == nil {
		C.CFRelease(C.CFTypeRef(tap))
		s.handle.Delete()
		return nil, errors.New("CFMachPortCreateRunLoopSource failed")
	}

	C.CGEventTapEnable(tap, C.bool(true))
	s.tap = tap
	s.source = source
	return s, nil
}

type quartzSession struct {
	handler Handler
	handle  cgo.Handle
	tap     C.CFMachPortRef
	source  C.CFRunLoopSourceRef

	mu      sync.Mutex
	loop    C.CFRunLoopRef
	stopped bool
}

// Run binds the tap to the calling thread's run loop and blocks until Stop.
func (s *quartzSession) Run() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.loop = C.CFRunLoopGetCurrent()
	loop := s.loop
	s.mu.Unlock()

	C.CFRunLoopAddSource(loop, s.source, C.kCFRunLoopCommonModes)
	C.CFRunLoopRun()
	return nil
}

func (s *quartzSession) Stop() {
	s.mu.Lock()
	s.stopped = true
	loop := s.loop
	s.mu.Unlock()

	if loop != nil {
		C.CFRunLoopStop(loop)
	}
}

func (s *quartzSession) Close() error {
	C.CGEventTapEnable(s.tap, C.bool(false))
	C.CFRelease(C.CFTypeRef(s.source))
	C.CFRelease(C.CFTypeRef(s.tap))
	s.handle.Delete()
	return nil
}

func cgMask(mask Mask) C.CGEventMask {
	var m C.CGEventMask
	for _, pair := range cgKinds {
		if mask.Contains(pair.kind) {
			m |= C.pglMaskBit(pair.cg)
		}
	}
	return m
}

var cgKinds = []struct {
	kind Kind
	cg   C.CGEventType
}{
	{KindKeyDown, C.kCGEventKeyDown},
	{KindKeyUp, C.kCGEventKeyUp},
	{KindLeftMouseDown, C.kCGEventLeftMouseDown},
	{KindLeftMouseUp, C.kCGEventLeftMouseUp},
	{KindRightMouseDown, C.kCGEventRightMouseDown},
	{KindRightMouseUp, C.kCGEventRightMouseUp},
	{KindOtherMouseDown, C.kCGEventOtherMouseDown},
	{KindOtherMouseUp, C.kCGEventOtherMouseUp},
	{KindMouseMoved, C.kCGEventMouseMoved},
	{KindLeftMouseDragged, C.kCGEventLeftMouseDragged},
	{KindRightMouseDragged, C.kCGEventRightMouseDragged},
}

func kindForCG(t C.CGEventType) Kind {
	for _, pair := range cgKinds {
		if pair.cg == t {
			return pair.kind
		}
	}
	return KindUnknown
}

func rawFromCG(eventType C.CGEventType, event C.CGEventRef) Raw {
	raw := Raw{
		Kind:        kindForCG(eventType),
		TimestampNS: uint64(C.CGEventGetTimestamp(event)),
	}

	switch raw.Kind {
	case KindKeyDown, KindKeyUp:
		raw.KeyCode = int(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		raw.KeyboardType = int(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeyboardType))
		flags := C.CGEventGetFlags(event)
		if flags&C.kCGEventFlagMaskShift != 0 {
			raw.Modifiers |= ModShift
		}
		if flags&C.kCGEventFlagMaskControl != 0 {
			raw.Modifiers |= ModControl
		}
		if flags&C.kCGEventFlagMaskAlternate != 0 {
			raw.Modifiers |= ModAlt
		}
		if flags&C.kCGEventFlagMaskCommand != 0 {
			raw.Modifiers |= ModCommand
		}
		if flags&C.kCGEventFlagMaskAlphaShift != 0 {
			raw.Modifiers |= ModCapsLock
		}
	case KindLeftMouseDown, KindLeftMouseUp, KindRightMouseDown, KindRightMouseUp,
		KindOtherMouseDown, KindOtherMouseUp:
		raw.Button = int(C.CGEventGetIntegerValueField(event, C.kCGMouseEventButtonNumber))
		raw.ClickState = int(C.CGEventGetIntegerValueField(event, C.kCGMouseEventClickState))
		raw.X = float64(C.pglEventX(event))
		raw.Y = float64(C.pglEventY(event))
	case KindMouseMoved, KindLeftMouseDragged, KindRightMouseDragged:
		raw.X = float64(C.pglEventX(event))
		raw.Y = float64(C.pglEventY(event))
	}
	return raw
}

//export pglTapHandler
func pglTapHandler(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	s, ok := cgo.Handle(uintptr(userInfo)).Value().(*quartzSession)
	if !ok {
		return event
	}

	if s.handler(rawFromCG(eventType, event)) == VerdictSuppress {
		return nil
	}
	return event
}
