// Package capture layers session conveniences over the raw event listener:
// a thread-safe event buffer with pressed-key tracking, an ESC failsafe
// that can disarm suppression or abort the session, and a controller that
// coordinates pause/kill signals for a running capture session.
package capture
