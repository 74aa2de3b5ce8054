package events

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// captureLoop owns one capture session: it opens the tap, runs its event
// loop on a dedicated OS thread, and tears the tap down after the loop has
// exited. The per-event hot path lives here.
type captureLoop struct {
	provider TapProvider
	mask     Mask
	callback Callback
	suppress *SuppressionSet
	logger   zerolog.Logger

	session  TapSession
	stopOnce sync.Once

	// ready carries the tap-open result back to Start exactly once; done
	// closes when the loop goroutine has fully exited.
	ready chan error
	done  chan struct{}
}

func newCaptureLoop(provider TapProvider, mask Mask, cb Callback, suppress *SuppressionSet, logger zerolog.Logger) *captureLoop {
	return &captureLoop{
		provider: provider,
		mask:     mask,
		callback: cb,
		suppress: suppress,
		logger:   logger,
		ready:    make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (cl *captureLoop) run() {
	defer close(cl.done)

	// The OS event loop must stay bound to one thread for the whole
	// session.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	session, err := cl.provider.Open(cl.mask, cl.handle)
	if err != nil {
		cl.ready <- err
		return
	}
	cl.session = session
	cl.ready <- nil

	runErr := session.Run()

	// Teardown strictly after the loop has stopped processing, so the
	// hook is never released under an in-flight handler invocation.
	if err := session.Close(); err != nil {
		cl.logger.Warn().Err(err).Msg("event tap close failed")
	}
	if runErr != nil {
		cl.logger.Error().Err(runErr).Msg("event loop exited with error")
	}
	cl.logger.Debug().Msg("capture loop exited")
}

// stop signals the session's event loop to terminate. Safe to call from
// any goroutine; only meaningful after the loop reported readiness.
func (cl *captureLoop) stop() {
	cl.stopOnce.Do(func() {
		if cl.session != nil {
			cl.session.Stop()
		}
	})
}

// handle is the hot path, invoked synchronously by the tap for every
// matched event. The suppression verdict is decided before translation and
// dispatch so a callback fault can never leak a suppressed event through or
// wrongly block an allowed one.
func (cl *captureLoop) handle(raw Raw) Verdict {
	if cl.callback == nil {
		return VerdictAllow
	}

	verdict := VerdictAllow
	if raw.Kind == KindKeyDown || raw.Kind == KindKeyUp {
		if cl.suppress.Contains(raw.KeyCode) {
			verdict = VerdictSuppress
		}
	}

	// Dispatch happens for every event, suppressed or not, so suppressed
	// input stays observable.
	cl.dispatch(Translate(raw))
	return verdict
}

func (cl *captureLoop) dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			cl.logger.Error().
				Interface("panic", r).
				Str("event_type", string(ev.Type)).
				Msg("event callback panicked")
		}
	}()
	cl.callback(ev)
}
