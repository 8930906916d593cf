// Package audio implements the capture and analysis pipeline. A Backend
// supplies raw interleaved samples; the Pipeline turns them into spectral,
// level and beat data and publishes one engine.AudioFrame per cycle.
package audio

// Capture format shared by all backends.
const (
	SampleRate   = 48000
	Channels     = 2
	BufferFrames = 1024
)

// Backend supplies raw interleaved stereo float32 samples. Implementations
// are owned exclusively by the Pipeline goroutine after Start; only the
// selection between backends happens elsewhere.
type Backend interface {
	// Start acquires the underlying device or generator.
	Start() error
	// ReadBuffer fills dst with interleaved samples and returns the number
	// of whole frames written. Zero means no new data is ready; the caller
	// skips the cycle rather than treating it as an error.
	ReadBuffer(dst []float32) int
	// Close releases the device. Safe to call after a failed Start.
	Close() error
}
