package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/thruflo/strobe/internal/engine"
	"github.com/thruflo/strobe/internal/logging"
)

// DefaultInterval is the sleep between analysis cycles (~60 Hz). This is a
// soft cadence: a slow cycle delays the next publish, nothing more.
const DefaultInterval = 16600 * time.Microsecond

// Pipeline runs the capture/analysis loop in its own goroutine and
// publishes one AudioFrame per cycle into the snapshot. Gain, smoothing and
// the enable flag may be changed from other goroutines at any time.
type Pipeline struct {
	log     *logging.Logger
	snap    *engine.Snapshot
	backend Backend

	analyzer *Analyzer
	interval time.Duration

	gain    atomic.Uint64 // float64 bits
	alpha   atomic.Uint64 // float64 bits
	enabled atomic.Bool

	stop chan struct{}
	done chan struct{}
}

// NewPipeline creates a Pipeline over an already-started backend. Gain
// defaults to 1.0 and smoothing to 0.7; the pipeline starts enabled.
func NewPipeline(snap *engine.Snapshot, backend Backend, log *logging.Logger) *Pipeline {
	p := &Pipeline{
		log:      log,
		snap:     snap,
		backend:  backend,
		analyzer: NewAnalyzer(),
		interval: DefaultInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	p.SetGain(1.0)
	p.SetSmoothing(0.7)
	p.enabled.Store(true)
	return p
}

// SetGain sets the spectrum gain multiplier. Non-positive values are
// ignored.
func (p *Pipeline) SetGain(gain float64) {
	if gain <= 0 {
		return
	}
	p.gain.Store(math.Float64bits(gain))
}

// Gain returns the current gain.
func (p *Pipeline) Gain() float64 {
	return math.Float64frombits(p.gain.Load())
}

// SetSmoothing sets the exponential smoothing factor. Values outside [0, 1)
// are ignored.
func (p *Pipeline) SetSmoothing(alpha float64) {
	if alpha < 0 || alpha >= 1 {
		return
	}
	p.alpha.Store(math.Float64bits(alpha))
}

// SetEnabled gates publishing. While disabled the pipeline publishes zeroed
// frames with Valid=false; the backend keeps running so re-enabling is
// instant.
func (p *Pipeline) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Enabled reports whether the pipeline publishes analysis data.
func (p *Pipeline) Enabled() bool {
	return p.enabled.Load()
}

// Start launches the pipeline goroutine.
func (p *Pipeline) Start() {
	go p.run()
}

// Stop signals the loop, waits for it to exit, then closes the backend.
func (p *Pipeline) Stop() {
	close(p.stop)
	<-p.done
	if err := p.backend.Close(); err != nil {
		p.log.Warn("failed to close audio backend", "err", err)
	}
}

func (p *Pipeline) run() {
	defer close(p.done)

	buf := make([]float32, BufferFrames*Channels)

	for {
		select {
		case <-p.stop:
			return
		default:
		}

		if !p.enabled.Load() {
			p.snap.PublishAudio(engine.AudioFrame{})
			p.sleep()
			continue
		}

		frames := p.backend.ReadBuffer(buf)
		if frames == 0 {
			// No new data: keep the previous published frame.
			p.sleep()
			continue
		}

		frame := p.analyzer.Analyze(
			buf[:frames*Channels],
			math.Float64frombits(p.gain.Load()),
			math.Float64frombits(p.alpha.Load()),
		)
		frame.Valid = true
		p.snap.PublishAudio(frame)

		p.sleep()
	}
}

// sleep pauses between cycles but wakes immediately on stop.
func (p *Pipeline) sleep() {
	select {
	case <-p.stop:
	case <-time.After(p.interval):
	}
}
