package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(component)
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger("audio")

	// Default level is info; debug is suppressed.
	l.Debug("cycle complete")
	assert.Empty(t, buf.String())

	l.Info("pipeline started")
	assert.Contains(t, buf.String(), "INFO [audio] pipeline started")

	buf.Reset()
	l.SetLevel(LevelError)
	l.Warn("short read")
	assert.Empty(t, buf.String())

	l.Error("backend init failed")
	assert.Contains(t, buf.String(), "ERROR [audio] backend init failed")
}

func TestLogger_KeyValues(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger("control")

	l.Info("client connected", "slot", 3, "remote", "10.0.0.2:5123")
	out := buf.String()
	assert.Contains(t, out, "slot=3")
	assert.Contains(t, out, "remote=10.0.0.2:5123")
}

func TestLogger_QuotesValuesWithWhitespace(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger("control")

	l.Warn("frame dropped", "reason", "extended length", "err", errors.New("payload too large"))
	out := buf.String()
	assert.Contains(t, out, `reason="extended length"`)
	assert.Contains(t, out, `err="payload too large"`)
}

func TestLogger_Named(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger("engine")
	sub := l.Named("beat")

	sub.Info("threshold crossed")
	assert.Contains(t, buf.String(), "[engine.beat]")
}

func TestLogger_OddKeyValsIgnored(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger("audio")

	// Trailing key without a value is dropped, not garbled.
	l.Info("publish", "volume", 0.5, "dangling")
	out := buf.String()
	assert.Contains(t, out, "volume=0.5")
	assert.NotContains(t, out, "dangling")
}
