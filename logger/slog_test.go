package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}

	return records
}

func TestSlogLevelGating(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log := newSlog(&buf, InfoLevel, "")

	log.Debug("dropped")
	log.Info("kept", "k", "v")

	records := decodeLines(t, &buf)
	require.Len(records, 1)
	require.Equal("kept", records[0]["msg"])
	require.Equal("v", records[0]["k"])
	require.Contains(records[0], "ts")

	buf.Reset()
	log.SetLevel(DebugLevel)
	log.Debug("now visible")

	records = decodeLines(t, &buf)
	require.Len(records, 1)
	require.Equal("now visible", records[0]["msg"])
}

func TestSlogLevelRoundTrip(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log := newSlog(&buf, WarnLevel, "")
	require.Equal(WarnLevel, log.Level())

	log.SetLevel(ErrorLevel)
	require.Equal(ErrorLevel, log.Level())
	log.Warn("dropped")
	log.Error("kept")

	records := decodeLines(t, &buf)
	require.Len(records, 1)
	require.Equal("ERROR", records[0]["level"])
}

func TestSlogWith(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log := newSlog(&buf, InfoLevel, "")
	child := log.With("remote", "10.0.0.1:4321")

	child.Info("terminal connected")
	log.Info("plain")

	records := decodeLines(t, &buf)
	require.Len(records, 2)
	require.Equal("10.0.0.1:4321", records[0]["remote"])
	require.NotContains(records[1], "remote")

	// the child shares the parent's level
	child.SetLevel(ErrorLevel)
	require.Equal(ErrorLevel, log.Level())
}

func TestLevelString(t *testing.T) {
	require := require.New(t)

	require.Equal("debug", DebugLevel.String())
	require.Equal("info", InfoLevel.String())
	require.Equal("warn", WarnLevel.String())
	require.Equal("error", ErrorLevel.String())
}

func TestSetLogger(t *testing.T) {
	require := require.New(t)

	orig := GetLogger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	replacement := newSlog(&buf, InfoLevel, "")
	SetLogger(replacement)
	require.Same(replacement, GetLogger())

	// a nil logger is ignored
	SetLogger(nil)
	require.Same(replacement, GetLogger())
}
