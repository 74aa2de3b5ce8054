package events

// Type tags a translated event with its category. The string values are the
// wire-level tags delivered to callbacks and serialised by the CLI.
type Type string

const (
	TypeKeyDown Type = "keydown"
	TypeKeyUp   Type = "keyup"

	TypeLeftMouseDown  Type = "leftMouseDown"
	TypeLeftMouseUp    Type = "leftMouseUp"
	TypeRightMouseDown Type = "rightMouseDown"
	TypeRightMouseUp   Type = "rightMouseUp"
	TypeOtherMouseDown Type = "otherMouseDown"
	TypeOtherMouseUp   Type = "otherMouseUp"

	TypeMouseMoved        Type = "mouseMoved"
	TypeLeftMouseDragged  Type = "leftMouseDragged"
	TypeRightMouseDragged Type = "rightMouseDragged"

	// TypeUnknown marks events the translator could not classify. Such
	// records carry a timestamp and nothing else.
	TypeUnknown Type = "unknown"
)

// Kind identifies a raw platform event category before translation.
type Kind int

const (
	KindUnknown Kind = iota
	KindKeyDown
	KindKeyUp
	KindLeftMouseDown
	KindLeftMouseUp
	KindRightMouseDown
	KindRightMouseUp
	KindOtherMouseDown
	KindOtherMouseUp
	KindMouseMoved
	KindLeftMouseDragged
	KindRightMouseDragged
)

// Modifiers is the bit set of keyboard modifier flags on a raw key event.
type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModCommand
	ModCapsLock
)

// Raw is the provider-neutral representation of one intercepted OS event.
// Tap providers populate only the fields meaningful for the event kind.
type Raw struct {
	Kind        Kind
	TimestampNS uint64

	KeyCode      int
	KeyboardType int
	Modifiers    Modifiers

	Button     int
	ClickState int
	X          float64
	Y          float64
}

// Event is the structured record handed to the registered callback. It is
// created on the capture thread, passed by value, and never retained by the
// listener.
type Event struct {
	Timestamp float64 `json:"timestamp"`
	Type      Type    `json:"eventType"`

	KeyCode      int  `json:"keyCode"`
	KeyboardType int  `json:"keyboardType"`
	Shift        bool `json:"shift"`
	Control      bool `json:"control"`
	Alt          bool `json:"alt"`
	Command      bool `json:"command"`
	CapsLock     bool `json:"capsLock"`

	Button     int     `json:"button"`
	ClickState int     `json:"clickState"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// IsKeyboard reports whether the event is a key press or release.
func (e Event) IsKeyboard() bool {
	return e.Type == TypeKeyDown || e.Type == TypeKeyUp
}

// IsMouse reports whether the event is a button, motion, or drag event.
func (e Event) IsMouse() bool {
	switch e.Type {
	case TypeLeftMouseDown, TypeLeftMouseUp, TypeRightMouseDown, TypeRightMouseUp,
		TypeOtherMouseDown, TypeOtherMouseUp, TypeMouseMoved,
		TypeLeftMouseDragged, TypeRightMouseDragged:
		return true
	}
	return false
}

// Translate converts a raw platform event into the callback-ready record.
// It never fails: kinds outside the known set yield a timestamp-only record
// so the capture loop has no translator error path to handle.
func Translate(raw Raw) Event {
	ev := Event{
		Timestamp: float64(raw.TimestampNS) / 1e9,
		Type:      typeForKind(raw.Kind),
	}

	switch raw.Kind {
	case KindKeyDown, KindKeyUp:
		ev.KeyCode = raw.KeyCode
		ev.KeyboardType = raw.KeyboardType
		ev.Shift = raw.Modifiers&ModShift != 0
		ev.Control = raw.Modifiers&ModControl != 0
		ev.Alt = raw.Modifiers&ModAlt != 0
		ev.Command = raw.Modifiers&ModCommand != 0
		ev.CapsLock = raw.Modifiers&ModCapsLock != 0
	case KindLeftMouseDown, KindLeftMouseUp, KindRightMouseDown, KindRightMouseUp,
		KindOtherMouseDown, KindOtherMouseUp:
		ev.Button = raw.Button
		ev.ClickState = raw.ClickState
		ev.X = raw.X
		ev.Y = raw.Y
	case KindMouseMoved, KindLeftMouseDragged, KindRightMouseDragged:
		ev.X = raw.X
		ev.Y = raw.Y
	}
	return ev
}

func typeForKind(k Kind) Type {
	switch k {
	case KindKeyDown:
		return TypeKeyDown
	case KindKeyUp:
		return TypeKeyUp
	case KindLeftMouseDown:
		return TypeLeftMouseDown
	case KindLeftMouseUp:
		return TypeLeftMouseUp
	case KindRightMouseDown:
		return TypeRightMouseDown
	case KindRightMouseUp:
		return TypeRightMouseUp
	case KindOtherMouseDown:
		return TypeOtherMouseDown
	case KindOtherMouseUp:
		return TypeOtherMouseUp
	case KindMouseMoved:
		return TypeMouseMoved
	case KindLeftMouseDragged:
		return TypeLeftMouseDragged
	case KindRightMouseDragged:
		return TypeRightMouseDragged
	default:
		return TypeUnknown
	}
}
