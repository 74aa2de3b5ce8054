package events

import (
	"errors"
	"sync"
)

// SyntheticProvider is an in-memory TapProvider. Sessions deliver events
// injected by the test (or the doctor self-test) through the same hot path
// a real tap would use, and report the verdict back to the injector.
type SyntheticProvider struct {
	mu      sync.Mutex
	openErr error
	session *SyntheticSession
}

// NewSyntheticProvider returns a provider with no open session.
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{}
}

// FailNextOpen makes the next Open call fail with err (or a generic error
// when err is nil). Used to exercise startup rollback.
func (p *SyntheticProvider) FailNextOpen(err error) {
	if err == nil {
		err = errors.New("synthetic tap open failure")
	}
	p.mu.Lock()
	p.openErr = err
	p.mu.Unlock()
}

// Open implements TapProvider.
func (p *SyntheticProvider) Open(mask Mask, handle Handler) (TapSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.openErr != nil {
		err := p.openErr
		p.openErr = nil
		return nil, err
	}

	s := &SyntheticSession{
		mask:   mask,
		handle: handle,
		stopc:  make(chan struct{}),
	}
	p.session = s
	return s, nil
}

// Session returns the most recently opened session, or nil.
func (p *SyntheticProvider) Session() *SyntheticSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// SyntheticSession is one open synthetic tap. Inject and Stop are mutually
// exclusive: Stop waits for in-flight deliveries, and after Stop returns no
// further handler invocations occur. That mirrors the real tap, where
// stopping the run loop and disabling the tap ends delivery.
type SyntheticSession struct {
	mask   Mask
	handle Handler

	mu       sync.RWMutex
	stopped  bool
	closed   bool
	stopc    chan struct{}
	stopOnce sync.Once
}

// Run blocks until Stop is called.
func (s *SyntheticSession) Run() error {
	<-s.stopc
	return nil
}

// Stop terminates the session's loop. Idempotent.
func (s *SyntheticSession) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.stopOnce.Do(func() { close(s.stopc) })
}

// Close marks the session released.
func (s *SyntheticSession) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Closed reports whether Close has run.
func (s *SyntheticSession) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Inject delivers one raw event to the session's handler, synchronously,
// and returns the verdict. Events outside the mask, or injected after
// Stop, are allowed through without dispatch.
func (s *SyntheticSession) Inject(raw Raw) Verdict {
	if !s.mask.Contains(raw.Kind) && raw.Kind != KindUnknown {
		return VerdictAllow
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped || s.closed {
		return VerdictAllow
	}
	return s.handle(raw)
}
