package render

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/strobe/internal/engine"
	"github.com/thruflo/strobe/internal/logging"
	"github.com/thruflo/strobe/internal/tempo"
)

// syncBuffer is a goroutine-safe writer for capturing frames.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietLogger() *logging.Logger {
	l := logging.New("test")
	l.SetOutput(io.Discard)
	return l
}

func TestLoop_RendersFramesUntilStopped(t *testing.T) {
	t.Parallel()

	snap := engine.NewSnapshot()
	snap.PublishAudio(engine.AudioFrame{Volume: 0.5, Valid: true})

	out := &syncBuffer{}
	loop := NewLoop(snap, tempo.NewClock(120), out, 40, 12, 120, quietLogger())

	frames := make(chan uint64, 1)
	go func() { frames <- loop.Run() }()

	require.Eventually(t, func() bool {
		return len(out.String()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	loop.Stop()
	loop.Stop() // idempotent

	select {
	case n := <-frames:
		assert.Greater(t, n, uint64(0))
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop within timeout")
	}

	// Frames carry the status line with the clock tempo.
	assert.Contains(t, out.String(), "120 bpm")
}

func TestLoop_SetScene(t *testing.T) {
	t.Parallel()

	snap := engine.NewSnapshot()
	out := &syncBuffer{}
	loop := NewLoop(snap, tempo.NewClock(120), out, 40, 12, 120, quietLogger())

	loop.SetScene(SceneByName("plasma"))

	done := make(chan uint64, 1)
	go func() { done <- loop.Run() }()

	// Plasma draws even with no audio, so output appears.
	require.Eventually(t, func() bool {
		return len(out.String()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	loop.Stop()
	<-done
}
