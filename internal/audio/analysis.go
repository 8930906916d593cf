package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/thruflo/strobe/internal/engine"
)

// fftSize is the number of mono samples fed to the FFT each cycle. With 256
// usable bins folded into 64 bands, each band covers 4 bins (~375 Hz at
// 48 kHz).
const fftSize = 512

// Band boundaries, as fractions of the spectrum: the bottom eighth is bass,
// up to the half is mid, the rest is treble.
const (
	bassEnd = engine.SpectrumBands / 8
	midEnd  = engine.SpectrumBands / 2
)

// Analyzer converts raw sample buffers into smoothed spectra, band levels
// and beat events. It keeps the smoothing state between cycles and is owned
// by the Pipeline goroutine; it is not safe for concurrent use.
type Analyzer struct {
	smoothed [engine.SpectrumBands]float64
	mono     [fftSize]float64
	beat     beatDetector
}

// NewAnalyzer returns an Analyzer with zeroed smoothing state.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze processes one buffer of interleaved stereo samples and returns the
// resulting frame. gain scales every band before smoothing; alpha is the
// exponential smoothing factor in [0, 1), where 0 passes the raw spectrum
// through unchanged.
func (a *Analyzer) Analyze(samples []float32, gain, alpha float64) engine.AudioFrame {
	// Left channel only; short buffers are zero-padded.
	n := len(samples) / Channels
	if n > fftSize {
		n = fftSize
	}
	for i := 0; i < n; i++ {
		a.mono[i] = float64(samples[i*Channels])
	}
	for i := n; i < fftSize; i++ {
		a.mono[i] = 0
	}

	spectrum := computeSpectrum(a.mono[:])

	var frame engine.AudioFrame
	for i := range spectrum {
		v := spectrum[i] * gain
		a.smoothed[i] = a.smoothed[i]*alpha + v*(1-alpha)
		frame.Spectrum[i] = a.smoothed[i]
	}

	frame.Bass, frame.Mid, frame.Treble, frame.Volume = computeLevels(frame.Spectrum)
	frame.BeatDetected, frame.BeatIntensity = a.beat.detect(frame.Volume)
	return frame
}

// computeSpectrum folds the FFT of the mono buffer into SpectrumBands
// log-scaled magnitude bands.
func computeSpectrum(mono []float64) [engine.SpectrumBands]float64 {
	var out [engine.SpectrumBands]float64

	bins := fft.FFTReal(mono)
	usable := len(mono) / 2 // bins above Nyquist mirror the lower half
	perBand := usable / engine.SpectrumBands

	for band := 0; band < engine.SpectrumBands; band++ {
		var sum float64
		for k := 0; k < perBand; k++ {
			c := bins[band*perBand+k]
			sum += math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
		}
		mag := sum / float64(perBand) / float64(len(mono))

		// Log scaling keeps quiet content visible.
		out[band] = math.Log(1+mag*10) / math.Log(11)
	}
	return out
}

// computeLevels derives the aggregate band levels from a spectrum. Bass is
// boosted 2x to compensate for its narrow band range; all levels are
// clamped to [0, 1].
func computeLevels(spectrum [engine.SpectrumBands]float64) (bass, mid, treble, volume float64) {
	for i, v := range spectrum {
		volume += v
		switch {
		case i < bassEnd:
			bass += v
		case i < midEnd:
			mid += v
		default:
			treble += v
		}
	}

	bass = clamp01(bass / bassEnd * 2)
	mid = clamp01(mid / (midEnd - bassEnd))
	treble = clamp01(treble / (engine.SpectrumBands - midEnd))
	volume = clamp01(volume / engine.SpectrumBands)
	return bass, mid, treble, volume
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
