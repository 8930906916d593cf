// Package tempo provides the beat clock the engine reads tempo and phase
// from. The Sync interface is the seam for an external Link-style peer
// service; peer discovery is out of scope, so the built-in Clock keeps time
// locally from the monotonic clock.
package tempo

import (
	"sync"
	"time"
)

// Tempo bounds in BPM. Values outside this range are clamped on set.
const (
	MinBPM = 20.0
	MaxBPM = 999.0
)

// DefaultQuantum is the bar length in beats.
const DefaultQuantum = 4.0

// Sync is the tempo-sync surface consumed by the engine. Implementations
// must be safe for concurrent use: the render loop reads phase every frame
// while the UI may set tempo at any time.
type Sync interface {
	// Tempo returns the current tempo in BPM.
	Tempo() float64
	// SetTempo sets the tempo, clamped to [MinBPM, MaxBPM].
	SetTempo(bpm float64)
	// BeatPhase returns the position within the current beat in [0, 1).
	BeatPhase() float64
}

// Clock is a local monotonic beat clock.
type Clock struct {
	mu      sync.Mutex
	bpm     float64
	quantum float64

	// origin and originBeat anchor the beat timeline so tempo changes do
	// not jump the running beat position.
	origin     time.Time
	originBeat float64

	now func() time.Time // test hook
}

// NewClock returns a Clock running at the given tempo.
func NewClock(bpm float64) *Clock {
	c := &Clock{
		quantum: DefaultQuantum,
		now:     time.Now,
	}
	c.bpm = clampBPM(bpm)
	c.origin = c.now()
	return c
}

// Tempo returns the current tempo in BPM.
func (c *Clock) Tempo() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bpm
}

// SetTempo changes the tempo, re-anchoring the beat timeline so the beat
// position is continuous across the change.
func (c *Clock) SetTempo(bpm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	c.originBeat = c.beatsAtLocked(t)
	c.origin = t
	c.bpm = clampBPM(bpm)
}

// SetQuantum sets the bar length in beats. Values below 1 are ignored.
func (c *Clock) SetQuantum(quantum float64) {
	if quantum < 1 {
		return
	}
	c.mu.Lock()
	c.quantum = quantum
	c.mu.Unlock()
}

// Beats returns the total beat count since the clock started.
func (c *Clock) Beats() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beatsAtLocked(c.now())
}

// BeatPhase returns the position within the current beat in [0, 1).
func (c *Clock) BeatPhase() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	beats := c.beatsAtLocked(c.now())
	return beats - float64(int64(beats))
}

// BarPhase returns the position within the current bar in [0, 1), using the
// configured quantum.
func (c *Clock) BarPhase() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	beats := c.beatsAtLocked(c.now())
	bar := beats / c.quantum
	return bar - float64(int64(bar))
}

func (c *Clock) beatsAtLocked(t time.Time) float64 {
	return c.originBeat + t.Sub(c.origin).Seconds()*c.bpm/60.0
}

func clampBPM(bpm float64) float64 {
	switch {
	case bpm < MinBPM:
		return MinBPM
	case bpm > MaxBPM:
		return MaxBPM
	default:
		return bpm
	}
}
