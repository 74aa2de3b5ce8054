// Package events implements a system-wide keyboard and mouse interception
// layer. A Listener installs a global event tap through a TapProvider (the
// macOS Quartz tap on darwin, a gohook-backed fallback elsewhere, or an
// in-memory synthetic tap for tests), runs it on a dedicated capture
// goroutine, and dispatches every intercepted event to a registered
// callback. Key events whose codes are in the suppression set are dropped
// before they reach other applications; they are still delivered to the
// callback so suppressed input remains observable.
package events
