package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuppressionSetReplaceAndContains(t *testing.T) {
	s := NewSuppressionSet()
	require.NoError(t, s.Replace([]int{36, 49, 36}))

	require.True(t, s.Contains(36))
	require.True(t, s.Contains(49))
	require.False(t, s.Contains(53))
	require.Equal(t, 2, s.Len())
	require.Equal(t, []int{36, 49}, s.Snapshot())
}

func TestSuppressionSetReplaceEmptyClears(t *testing.T) {
	s := NewSuppressionSet()
	require.NoError(t, s.Replace([]int{12}))
	require.NoError(t, s.Replace(nil))
	require.Zero(t, s.Len())
	require.False(t, s.Contains(12))
}

func TestSuppressionSetRejectsOversizedList(t *testing.T) {
	keys := make([]int, MaxSuppressedKeys+1)
	for i := range keys {
		keys[i] = i
	}

	s := NewSuppressionSet()
	require.NoError(t, s.Replace([]int{7}))
	require.ErrorIs(t, s.Replace(keys), ErrTooManyKeys)

	// The failed replace must leave the previous set intact.
	require.True(t, s.Contains(7))
	require.Equal(t, 1, s.Len())
}

func TestSuppressionSetRejectsInvalidKeycode(t *testing.T) {
	s := NewSuppressionSet()
	require.NoError(t, s.Replace([]int{7}))

	require.ErrorIs(t, s.Replace([]int{3, -1}), ErrInvalidKeycode)
	require.ErrorIs(t, s.Replace([]int{0x10000}), ErrInvalidKeycode)

	require.True(t, s.Contains(7))
	require.False(t, s.Contains(3))
}

func TestSuppressionSetAcceptsMaximumList(t *testing.T) {
	keys := make([]int, MaxSuppressedKeys)
	for i := range keys {
		keys[i] = i
	}

	s := NewSuppressionSet()
	require.NoError(t, s.Replace(keys))
	require.Equal(t, MaxSuppressedKeys, s.Len())
}

func TestSuppressionSetClear(t *testing.T) {
	s := NewSuppressionSet()
	require.NoError(t, s.Replace([]int{1, 2, 3}))
	s.Clear()
	require.Zero(t, s.Len())
	require.Empty(t, s.Snapshot())
}
