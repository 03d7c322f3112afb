package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trickstertwo/xclock"
)

var frozenAt = time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)

func newTestLogger(buf *bytes.Buffer) *RunLogger {
	return NewBuilder().
		SetTimezone("Europe/Kyiv").
		SetOutput(buf).
		SetClock(xclock.NewFrozen(frozenAt)).
		Build()
}

// stepClock 依次返回给定的时间
type stepClock struct {
	times []time.Time
	i     int
}

func (c *stepClock) Now() time.Time {
	t := c.times[c.i]
	if c.i < len(c.times)-1 {
		c.i++
	}
	return t
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()
	entry := &LogEntry{
		Time:    frozenAt,
		Level:   LogLevelWarn,
		Step:    "fetch",
		Stage:   "retry-3",
		Message: "timeout",
		Extra:   "page=2",
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-01T08:30:00.000Z] WARN fetch retry-3: timeout | page=2\n", string(out))

	entry.Extra = ""
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-01T08:30:00.000Z] WARN fetch retry-3: timeout\n", string(out))
}

func TestTextFormatterColor(t *testing.T) {
	f := NewTextFormatter()
	f.ColorOutput = true
	out, err := f.Format(&LogEntry{Time: frozenAt, Level: LogLevelError, Step: "s", Stage: "t", Message: "m"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "\033[31mERROR\033[0m")
}

func TestTimestampIsUTC(t *testing.T) {
	kyiv := time.FixedZone("EET", 2*60*60)
	e := LogEntry{Time: time.Date(2025, 1, 1, 10, 30, 0, 123000000, kyiv)}
	assert.Equal(t, "2025-01-01T08:30:00.123Z", e.Timestamp())
}

func TestJsonFormatter(t *testing.T) {
	f := NewJsonFormatter()
	entry := &LogEntry{
		Time:    frozenAt,
		Level:   LogLevelInfo,
		Step:    "parse",
		Stage:   "card",
		Message: "Hello",
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(out, &data))
	assert.Equal(t, "2025-01-01T08:30:00.000Z", data["ts"])
	assert.Equal(t, "INFO", data["level"])
	assert.Equal(t, "parse", data["step"])
	assert.Equal(t, "card", data["stage"])
	assert.Equal(t, "Hello", data["message"])
	_, hasExtra := data["extra"]
	assert.False(t, hasExtra, "empty extra should be omitted")
}

func TestRunLoggerLog(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Log(LogLevelError, "fetch", "page-1", "status 503", "url=https://example.com")

	entries := l.Entries()
	require.Len(t, entries, 1)
	last := entries[0]
	assert.Equal(t, LogLevelError, last.Level)
	assert.Equal(t, "fetch", last.Step)
	assert.Equal(t, "page-1", last.Stage)
	assert.Equal(t, "status 503", last.Message)
	assert.Equal(t, "url=https://example.com", last.Extra)
	assert.Equal(t, "2025-01-01T08:30:00.000Z", last.Timestamp())

	_, err := time.Parse(time.RFC3339Nano, last.Timestamp())
	assert.NoError(t, err)

	assert.Equal(t, "[2025-01-01T08:30:00.000Z] ERROR fetch page-1: status 503 | url=https://example.com\n", buf.String())
}

func TestRunLoggerAcceptsEmptyStrings(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("", "", "")

	entries := l.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.True(t, frozenAt.Equal(e.Time))
	assert.Equal(t, LogLevelInfo, e.Level)
	assert.Empty(t, e.Step)
	assert.Empty(t, e.Stage)
	assert.Empty(t, e.Message)
	assert.Empty(t, e.Extra)
	assert.Equal(t, "[2025-01-01T08:30:00.000Z] INFO  : \n", buf.String())
}

func TestRunLoggerOrderAndLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("run", "start", "one")
	l.Warn("parse", "card", "two")
	l.Error("save", "sheet", "three")
	l.Info("run", "finish", "four")

	entries := l.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, 4, l.Len())

	wantLevels := []LogLevel{LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelInfo}
	wantMsgs := []string{"one", "two", "three", "four"}
	for i, e := range entries {
		assert.Equal(t, wantLevels[i], e.Level)
		assert.Equal(t, wantMsgs[i], e.Message)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "INFO run start: one")
	assert.Contains(t, lines[1], "WARN parse card: two")
	assert.Contains(t, lines[2], "ERROR save sheet: three")
	assert.Contains(t, lines[3], "INFO run finish: four")
}

func TestRunLoggerSnapshotIndependence(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("a", "b", "first")
	snapshot := l.Entries()

	l.Info("a", "b", "second")
	l.Warn("a", "b", "third")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "first", snapshot[0].Message)

	snapshot[0].Message = "changed"
	assert.Equal(t, "first", l.Entries()[0].Message)
	assert.Len(t, l.Entries(), 3)
}

func TestRunLoggerMonotonicTimestamps(t *testing.T) {
	var buf bytes.Buffer
	clock := &stepClock{times: []time.Time{
		frozenAt,
		frozenAt.Add(time.Second),
		frozenAt.Add(-time.Minute),
		frozenAt.Add(2 * time.Second),
	}}
	l := NewBuilder().SetOutput(&buf).SetClock(clock).Build()

	for i := 0; i < 4; i++ {
		l.Info("step", "stage", "tick")
	}

	entries := l.Entries()
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Time.Before(entries[i-1].Time), "entry %d went backwards", i)
	}
	assert.True(t, frozenAt.Add(time.Second).Equal(entries[2].Time))
}

func TestRunLoggerWriteFailureKeepsEntry(t *testing.T) {
	var handled []error
	l := NewBuilder().
		SetOutput(failingWriter{}).
		SetClock(xclock.NewFrozen(frozenAt)).
		SetErrorHandler(func(err error) { handled = append(handled, err) }).
		Build()

	l.Warn("save", "sheet", "quota exceeded")

	require.Len(t, l.Entries(), 1)
	require.Len(t, handled, 1)
	assert.Contains(t, handled[0].Error(), "stdout closed")
}

func TestRunLoggerIdentity(t *testing.T) {
	l := NewBuilder().SetTimezone("Europe/Kyiv").SetOutput(&bytes.Buffer{}).Build()
	assert.Equal(t, "Europe/Kyiv", l.Timezone())
	_, err := uuid.Parse(l.RunID())
	assert.NoError(t, err)

	other := NewBuilder().SetOutput(&bytes.Buffer{}).Build()
	assert.NotEqual(t, l.RunID(), other.RunID())

	fixed := NewBuilder().SetRunID("run-42").SetOutput(&bytes.Buffer{}).Build()
	assert.Equal(t, "run-42", fixed.RunID())
}

func TestRunLoggerDefaultClockFollowsXclock(t *testing.T) {
	old := xclock.Default()
	defer xclock.SetDefault(old)
	xclock.SetDefault(xclock.NewFrozen(frozenAt))

	var buf bytes.Buffer
	l := NewBuilder().SetOutput(&buf).Build()
	l.Info("run", "start", "go")

	assert.True(t, frozenAt.Equal(l.Entries()[0].Time))
}

func TestNewRunLogger(t *testing.T) {
	l := NewRunLogger("Europe/Kyiv")
	assert.Equal(t, "Europe/Kyiv", l.Timezone())
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Entries())
}

func TestRunLoggerJsonConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewBuilder().
		SetOutput(&buf).
		SetFormatter(NewJsonFormatter()).
		SetClock(xclock.NewFrozen(frozenAt)).
		Build()

	l.Info("run", "start", "go", "pages=10")
	assert.Equal(t,
		`{"ts":"2025-01-01T08:30:00.000Z","level":"INFO","step":"run","stage":"start","message":"go","extra":"pages=10"}`+"\n",
		buf.String())
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)

	l.Warn("cron", "tick", "skipped")

	assert.Nil(t, l.Entries())
	assert.Contains(t, buf.String(), "WARN cron tick: skipped")
}

func TestMultipleExtrasJoined(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("parse", "card", "price", "raw=12,50", "unit=грн")
	assert.Equal(t, "raw=12,50 unit=грн", l.Entries()[0].Extra)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"info", LogLevelInfo},
		{" WARN ", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"Error", LogLevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLogLevel("debug")
	assert.Error(t, err)
	assert.False(t, LogLevel(7).Valid())
	assert.Equal(t, "UNKNOWN", LogLevel(7).String())
}
