package render

import (
	"math"

	"github.com/thruflo/strobe/internal/engine"
)

// Scene draws one frame into a buffer from the published audio state, the
// beat phase and the elapsed time in seconds. Scenes are pure per-cell
// math; they do no I/O and hold no locks.
type Scene interface {
	Name() string
	Draw(buf *Buffer, audio engine.AudioFrame, phase, t float64)
}

// ramp maps a magnitude in [0, 1] to a display rune, dark to bright.
var ramp = []rune(" .:-=+*#%@")

func shade(v float64) rune {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	idx := int(v * float64(len(ramp)-1))
	return ramp[idx]
}

// Scenes returns the built-in scenes in menu order.
func Scenes() []Scene {
	return []Scene{
		&SpectrumScene{},
		&PlasmaScene{},
		&PulseScene{},
	}
}

// SceneByName returns the named scene, falling back to the first built-in.
func SceneByName(name string) Scene {
	scenes := Scenes()
	for _, s := range scenes {
		if s.Name() == name {
			return s
		}
	}
	return scenes[0]
}

// SpectrumScene draws the 64 spectrum bands as vertical bars.
type SpectrumScene struct{}

func (*SpectrumScene) Name() string { return "spectrum" }

func (*SpectrumScene) Draw(buf *Buffer, audio engine.AudioFrame, phase, t float64) {
	for x := 0; x < buf.W; x++ {
		band := x * engine.SpectrumBands / buf.W
		level := audio.Spectrum[band]

		height := int(level * float64(buf.H))
		for y := buf.H - height; y < buf.H; y++ {
			buf.Set(x, y, shade(level))
		}
	}
}

// PlasmaScene draws a classic sine-field plasma; the audio bands modulate
// the field's spatial frequencies.
type PlasmaScene struct{}

func (*PlasmaScene) Name() string { return "plasma" }

func (*PlasmaScene) Draw(buf *Buffer, audio engine.AudioFrame, phase, t float64) {
	fx := 0.08 + 0.1*audio.Bass
	fy := 0.14 + 0.1*audio.Treble

	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			v := math.Sin(float64(x)*fx + t)
			v += math.Sin(float64(y)*fy - t*0.7)
			v += math.Sin(float64(x+y)*0.06 + t*1.3 + audio.Mid*math.Pi)
			buf.Set(x, y, shade((v+3)/6))
		}
	}
}

// PulseScene draws rings expanding from the center, restarted by beats and
// paced by the beat phase.
type PulseScene struct {
	radius float64
}

func (*PulseScene) Name() string { return "pulse" }

func (s *PulseScene) Draw(buf *Buffer, audio engine.AudioFrame, phase, t float64) {
	if audio.BeatDetected {
		s.radius = 0
	}
	s.radius += 0.5 + audio.Volume

	cx, cy := float64(buf.W)/2, float64(buf.H)/2
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			// Terminal cells are roughly twice as tall as wide.
			dx := (float64(x) - cx) * 0.5
			dy := float64(y) - cy
			d := math.Sqrt(dx*dx + dy*dy)

			ring := math.Abs(d - s.radius)
			if ring < 1.5 {
				buf.Set(x, y, shade(1-ring/1.5*(1-audio.BeatIntensity)))
			} else if math.Mod(d-s.radius, 6) < 0.8 && d < s.radius {
				buf.Set(x, y, shade(0.3+0.4*math.Abs(math.Sin(phase*math.Pi))))
			}
		}
	}
}
