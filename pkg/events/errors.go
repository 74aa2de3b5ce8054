package events

import "errors"

// ErrAlreadyRunning is returned by Start when this listener, or any other
// listener in the process, already owns the event tap. The tap is a
// session-global OS resource; at most one capture session may be active.
var ErrAlreadyRunning = errors.New("event listener already running")

// ErrNotTrusted is returned by Start when the accessibility authorization
// check fails. The caller must grant trust and retry; nothing is retried
// automatically.
var ErrNotTrusted = errors.New("accessibility permission required for event capture")

// ErrTapUnavailable is returned by Start when the hook provider could not
// create or enable the tap. All partial state is rolled back and the
// listener remains stopped.
var ErrTapUnavailable = errors.New("event tap could not be created")

// ErrTooManyKeys is returned when a suppression update exceeds
// MaxSuppressedKeys. The previously active set is left unchanged.
var ErrTooManyKeys = errors.New("too many suppressed keys")

// ErrInvalidKeycode is returned when a suppression update contains a value
// outside the platform key-code range. The update is not applied.
var ErrInvalidKeycode = errors.New("key code out of range")

// ErrNilCallback is returned by Start when no callback is supplied.
var ErrNilCallback = errors.New("callback must not be nil")
