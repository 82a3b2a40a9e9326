package logging

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"":        logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, expected := range cases {
		lvl, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, expected, lvl, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLoggerWritesAndRecords(t *testing.T) {
	ResetRecords()
	var buf bytes.Buffer
	require.NoError(t, Init("info", &buf))

	l := CreateLogger("test")
	l.Infof("hello %s", "world")
	l.Debugf("hidden")

	out := buf.String()
	require.Contains(t, out, "INFO  | test            | hello world")
	require.NotContains(t, out, "hidden")

	recs := Records()
	require.Len(t, recs, 1)
	require.Equal(t, LevelInfo, recs[0].Level)
	require.Equal(t, "test", recs[0].Name)
	require.Equal(t, "hello world", recs[0].Message)
	require.True(t, strings.HasSuffix(recs[0].String(), "| hello world"))
}

func TestInitChangesLevelOfExistingLoggers(t *testing.T) {
	ResetRecords()
	var buf bytes.Buffer
	require.NoError(t, Init("error", &buf))

	l := CreateLogger("quiet")
	l.Warningf("dropped")
	require.Empty(t, Records())

	require.NoError(t, Init("debug", &buf))
	l.Debugf("kept")
	require.Len(t, Records(), 1)
	require.Equal(t, LevelDebug, Records()[0].Level)
}

func TestRingBufferKeepsNewest(t *testing.T) {
	b := newRingBuffer(3)
	for i := 0; i < 5; i++ {
		b.add(Record{Message: fmt.Sprintf("m%d", i)})
	}
	snap := b.snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, "m2", snap[0].Message)
	require.Equal(t, "m4", snap[2].Message)

	b.reset()
	require.Empty(t, b.snapshot())
}

func TestTail(t *testing.T) {
	ResetRecords()
	var buf bytes.Buffer
	require.NoError(t, Init("info", &buf))

	l := CreateLogger("tail")
	for i := 0; i < 4; i++ {
		l.Infof("line %d", i)
	}
	tail := Tail(2)
	require.Len(t, tail, 2)
	require.Equal(t, "line 2", tail[0].Message)
	require.Equal(t, "line 3", tail[1].Message)
	require.Len(t, Tail(10), 4)
}
