package audio

import "math"

// synthFreq is the fundamental of the generated test tone.
const synthFreq = 440.0

// SynthBackend generates a deterministic test signal: a 440 Hz tone with
// 2nd/3rd harmonics, a sub-octave component and a little pseudo-noise for
// high-band content. It stands in for a capture device so every downstream
// consumer still sees plausible spectra and levels.
type SynthBackend struct {
	phase float64
	noise uint32
}

// NewSynthBackend returns a generator starting from a fixed seed, so two
// runs produce identical sample streams.
func NewSynthBackend() *SynthBackend {
	return &SynthBackend{noise: 0x9E3779B9}
}

// Start implements Backend. The generator has nothing to acquire.
func (b *SynthBackend) Start() error { return nil }

// ReadBuffer fills dst with up to BufferFrames frames of the test signal.
func (b *SynthBackend) ReadBuffer(dst []float32) int {
	frames := len(dst) / Channels
	if frames > BufferFrames {
		frames = BufferFrames
	}

	step := 2 * math.Pi * synthFreq / SampleRate
	for i := 0; i < frames; i++ {
		sample := 0.3 * math.Sin(b.phase)
		sample += 0.2 * math.Sin(b.phase*2)
		sample += 0.1 * math.Sin(b.phase*3)
		sample += 0.05 * math.Sin(b.phase*0.5)
		sample += 0.02 * (b.rand() - 0.5)

		dst[i*Channels] = float32(sample)
		dst[i*Channels+1] = float32(sample)

		b.phase += step
		if b.phase > 2*math.Pi {
			b.phase -= 2 * math.Pi
		}
	}
	return frames
}

// Close implements Backend.
func (b *SynthBackend) Close() error { return nil }

// rand is a xorshift32 step scaled to [0, 1).
func (b *SynthBackend) rand() float64 {
	b.noise ^= b.noise << 13
	b.noise ^= b.noise >> 17
	b.noise ^= b.noise << 5
	return float64(b.noise) / float64(math.MaxUint32)
}
