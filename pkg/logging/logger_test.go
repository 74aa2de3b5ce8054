package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "verbose"})
	require.Error(t, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Level: "info", Format: "xml"})
	require.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Info().Str("component", "listener").Msg("started")

	line := buf.String()
	require.True(t, strings.HasPrefix(line, "{"), "expected JSON output, got %q", line)
	require.Contains(t, line, `"component":"listener"`)
	require.Contains(t, line, `"message":"started"`)
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Info().Msg("filtered")
	require.Empty(t, buf.String())

	logger.Warn().Msg("kept")
	require.Contains(t, buf.String(), "kept")
}
