package render

import (
	"io"
	"sync"
	"time"

	"github.com/thruflo/strobe/internal/engine"
	"github.com/thruflo/strobe/internal/logging"
	"github.com/thruflo/strobe/internal/tempo"
)

// Loop is the fixed-cadence frame renderer. Run blocks on the caller's
// goroutine; per frame it copies the audio frame and player records out of
// the snapshot, never waiting on either producer.
type Loop struct {
	log   *logging.Logger
	snap  *engine.Snapshot
	clock tempo.Sync
	out   io.Writer

	mu    sync.Mutex
	scene Scene

	width  int
	height int
	fps    int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a render loop drawing to out at the given frame rate.
func NewLoop(snap *engine.Snapshot, clock tempo.Sync, out io.Writer, width, height, fps int, log *logging.Logger) *Loop {
	return &Loop{
		log:    log,
		snap:   snap,
		clock:  clock,
		out:    out,
		scene:  Scenes()[0],
		width:  width,
		height: height,
		fps:    fps,
		stop:   make(chan struct{}),
	}
}

// SetScene switches the active scene before the next frame.
func (l *Loop) SetScene(s Scene) {
	l.mu.Lock()
	l.scene = s
	l.mu.Unlock()
}

// Run renders frames until Stop is called. It returns the number of frames
// drawn, which the caller logs at shutdown.
func (l *Loop) Run() uint64 {
	interval := time.Second / time.Duration(l.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := NewBuffer(l.width, l.height)
	start := time.Now()

	var frames uint64
	var fps float64

	for {
		select {
		case <-l.stop:
			return frames
		case <-ticker.C:
		}

		audio := l.snap.Audio()
		players := l.snap.Players()
		phase := l.clock.BeatPhase()
		bpm := l.clock.Tempo()

		l.mu.Lock()
		scene := l.scene
		l.mu.Unlock()

		elapsed := time.Since(start).Seconds()
		if elapsed > 0 {
			fps = float64(frames) / elapsed
		}

		buf.Clear()
		scene.Draw(buf, audio, phase, elapsed)
		DrawOverlay(buf, players)
		DrawStatus(buf, audio, bpm, fps)

		if err := buf.WriteTo(l.out); err != nil {
			l.log.Warn("frame write failed", "err", err)
		}
		frames++
	}
}

// Stop makes Run return after the current frame. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
