package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeycodeForChar(t *testing.T) {
	for ch, want := range map[rune]int{
		'a':  0,
		'A':  0,
		'z':  6,
		'0':  29,
		' ':  49,
		'\t': 48,
		'\n': 36,
		'\r': 36,
		'/':  44,
	} {
		code, ok := KeycodeForChar(ch)
		require.True(t, ok, "no mapping for %q", ch)
		require.Equal(t, want, code, "mapping for %q", ch)
	}

	_, ok := KeycodeForChar('é')
	require.False(t, ok)
}

func TestKeycodesForString(t *testing.T) {
	codes, unmapped := KeycodesForString("abcabc")
	require.Equal(t, []int{0, 11, 8}, codes)
	require.Empty(t, unmapped)
}

func TestKeycodesForStringReportsUnmapped(t *testing.T) {
	codes, unmapped := KeycodesForString("a€b")
	require.Equal(t, []int{0, 11}, codes)
	require.Equal(t, []rune{'€'}, unmapped)
}
