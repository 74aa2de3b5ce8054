package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestListener(provider *SyntheticProvider) *Listener {
	return NewListener(Options{
		Provider: provider,
		Trusted:  func() bool { return true },
	})
}

func discard(Event) {}

func TestListenerLifecycle(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	require.False(t, l.IsRunning())
	require.NoError(t, l.Start(discard))
	require.True(t, l.IsRunning())
	require.NotNil(t, provider.Session())

	l.Stop()
	require.False(t, l.IsRunning())
	require.True(t, provider.Session().Closed())
}

func TestListenerStartRejectsNilCallback(t *testing.T) {
	l := newTestListener(NewSyntheticProvider())
	require.ErrorIs(t, l.Start(nil), ErrNilCallback)
	require.False(t, l.IsRunning())
}

func TestListenerStartWhileRunningFails(t *testing.T) {
	l := newTestListener(NewSyntheticProvider())
	require.NoError(t, l.Start(discard))
	defer l.Stop()

	require.ErrorIs(t, l.Start(discard), ErrAlreadyRunning)
	require.True(t, l.IsRunning())
}

func TestListenerSecondListenerBlocked(t *testing.T) {
	first := newTestListener(NewSyntheticProvider())
	require.NoError(t, first.Start(discard))
	defer first.Stop()

	second := newTestListener(NewSyntheticProvider())
	require.ErrorIs(t, second.Start(discard), ErrAlreadyRunning)
	require.False(t, second.IsRunning())
}

func TestListenerStartRequiresTrust(t *testing.T) {
	provider := NewSyntheticProvider()
	l := NewListener(Options{
		Provider: provider,
		Trusted:  func() bool { return false },
	})

	require.ErrorIs(t, l.Start(discard), ErrNotTrusted)
	require.False(t, l.IsRunning())
	require.Nil(t, provider.Session())

	// The failed start must not leave the tap claimed.
	other := newTestListener(NewSyntheticProvider())
	require.NoError(t, other.Start(discard))
	other.Stop()
}

func TestListenerOpenFailureRollsBack(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	provider.FailNextOpen(nil)
	err := l.Start(discard)
	require.ErrorIs(t, err, ErrTapUnavailable)
	require.False(t, l.IsRunning())

	// Startup works once the fault clears.
	require.NoError(t, l.Start(discard))
	l.Stop()
}

func TestListenerStopIsIdempotent(t *testing.T) {
	l := newTestListener(NewSyntheticProvider())
	l.Stop()

	require.NoError(t, l.Start(discard))
	l.Stop()
	l.Stop()
	require.False(t, l.IsRunning())
}

func TestListenerSuppressionVerdicts(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	var mu sync.Mutex
	var seen []Event
	require.NoError(t, l.Start(func(ev Event) {
		mu.Lock()
		seen = append(seen, ev)
		mu.Unlock()
	}))
	defer l.Stop()

	require.NoError(t, l.SetSuppressedKeys([]int{36}))
	session := provider.Session()

	require.Equal(t, VerdictSuppress, session.Inject(Raw{Kind: KindKeyDown, KeyCode: 36}))
	require.Equal(t, VerdictSuppress, session.Inject(Raw{Kind: KindKeyUp, KeyCode: 36}))
	require.Equal(t, VerdictAllow, session.Inject(Raw{Kind: KindKeyDown, KeyCode: 49}))
	// Mouse events pass regardless of the suppression set.
	require.Equal(t, VerdictAllow, session.Inject(Raw{Kind: KindLeftMouseDown, KeyCode: 36}))

	// Suppressed events are still delivered to the callback.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 4)
	require.Equal(t, TypeKeyDown, seen[0].Type)
	require.Equal(t, 36, seen[0].KeyCode)
}

func TestListenerSuppressionSetBeforeStart(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	require.NoError(t, l.SetSuppressedKeys([]int{12}))
	require.Equal(t, []int{12}, l.SuppressedKeys())

	require.NoError(t, l.Start(discard))
	defer l.Stop()

	require.Equal(t, VerdictSuppress, provider.Session().Inject(Raw{Kind: KindKeyDown, KeyCode: 12}))
}

func TestListenerStopClearsSuppression(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	require.NoError(t, l.Start(discard))
	require.NoError(t, l.SetSuppressedKeys([]int{36}))
	l.Stop()

	require.Empty(t, l.SuppressedKeys())

	require.NoError(t, l.Start(discard))
	defer l.Stop()
	require.Equal(t, VerdictAllow, provider.Session().Inject(Raw{Kind: KindKeyDown, KeyCode: 36}))
}

func TestListenerSetSuppressedString(t *testing.T) {
	l := newTestListener(NewSyntheticProvider())
	require.NoError(t, l.SetSuppressedString("ab\né"))
	require.Equal(t, []int{0, 11, 36}, l.SuppressedKeys())
	require.True(t, l.IsSuppressed(36))
	require.False(t, l.IsSuppressed(53))
}

func TestListenerSetSuppressedKeysValidation(t *testing.T) {
	l := newTestListener(NewSyntheticProvider())
	require.NoError(t, l.SetSuppressedKeys([]int{5}))

	require.ErrorIs(t, l.SetSuppressedKeys([]int{-2}), ErrInvalidKeycode)
	require.Equal(t, []int{5}, l.SuppressedKeys())
}

func TestListenerNoCallbackAfterStop(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	var mu sync.Mutex
	delivered := 0
	require.NoError(t, l.Start(func(Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}))
	session := provider.Session()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			session.Inject(Raw{Kind: KindKeyDown, KeyCode: 0})
		}
	}()

	l.Stop()
	mu.Lock()
	atStop := delivered
	mu.Unlock()

	<-done
	mu.Lock()
	final := delivered
	mu.Unlock()
	require.Equal(t, atStop, final, "callback ran after Stop returned")
}

func TestListenerCallbackPanicContained(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	var mu sync.Mutex
	calls := 0
	require.NoError(t, l.Start(func(Event) {
		mu.Lock()
		calls++
		mu.Unlock()
		panic("handler fault")
	}))
	defer l.Stop()

	require.NoError(t, l.SetSuppressedKeys([]int{36}))
	session := provider.Session()

	// A panicking callback neither changes verdicts nor kills the session.
	require.Equal(t, VerdictSuppress, session.Inject(Raw{Kind: KindKeyDown, KeyCode: 36}))
	require.Equal(t, VerdictAllow, session.Inject(Raw{Kind: KindKeyDown, KeyCode: 49}))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
	require.True(t, l.IsRunning())
}

func TestListenerRestart(t *testing.T) {
	provider := NewSyntheticProvider()
	l := newTestListener(provider)

	require.NoError(t, l.Start(discard))
	l.Stop()
	require.NoError(t, l.Start(discard))
	require.True(t, l.IsRunning())
	l.Stop()
}
