package events

import (
	"sort"
	"sync"
)

// MaxSuppressedKeys bounds the suppression set. Updates longer than this
// are rejected wholesale.
const MaxSuppressedKeys = 1024

// maxKeycode is the largest representable platform key code (CGKeyCode is
// an unsigned 16-bit value).
const maxKeycode = 0xFFFF

// SuppressionSet is the thread-safe set of key codes whose key events are
// blocked from propagating to the rest of the OS. Contains runs on the
// capture thread for every key event; Replace runs on the caller's
// goroutine. Both take the same lock, and critical sections are bounded by
// MaxSuppressedKeys.
type SuppressionSet struct {
	mu    sync.Mutex
	codes map[int]struct{}
}

// NewSuppressionSet returns an empty set.
func NewSuppressionSet() *SuppressionSet {
	return &SuppressionSet{codes: make(map[int]struct{})}
}

// Replace swaps the entire set for the supplied codes. The update is
// all-or-nothing: on ErrTooManyKeys or ErrInvalidKeycode the previously
// active set is left untouched. Duplicates are collapsed. A nil or empty
// slice clears the set.
func (s *SuppressionSet) Replace(keys []int) error {
	if len(keys) > MaxSuppressedKeys {
		return ErrTooManyKeys
	}
	next := make(map[int]struct{}, len(keys))
	for _, code := range keys {
		if code < 0 || code > maxKeycode {
			return ErrInvalidKeycode
		}
		next[code] = struct{}{}
	}

	s.mu.Lock()
	s.codes = next
	s.mu.Unlock()
	return nil
}

// Contains reports whether the code is currently suppressed. Safe to call
// concurrently with Replace.
func (s *SuppressionSet) Contains(code int) bool {
	s.mu.Lock()
	_, ok := s.codes[code]
	s.mu.Unlock()
	return ok
}

// Snapshot returns the current codes in ascending order.
func (s *SuppressionSet) Snapshot() []int {
	s.mu.Lock()
	out := make([]int, 0, len(s.codes))
	for code := range s.codes {
		out = append(out, code)
	}
	s.mu.Unlock()
	sort.Ints(out)
	return out
}

// Len returns the number of suppressed codes.
func (s *SuppressionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

// Clear empties the set.
func (s *SuppressionSet) Clear() {
	s.mu.Lock()
	s.codes = make(map[int]struct{})
	s.mu.Unlock()
}
