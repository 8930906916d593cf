package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// ringMultiple sizes the ring buffer relative to one read buffer. The device
// callback and the pipeline run at similar rates; the headroom absorbs
// scheduling jitter.
const ringMultiple = 8

// CaptureBackend reads the system capture device through miniaudio (malgo).
// Device callbacks push samples into a mutex-guarded ring buffer; the
// pipeline drains it once per cycle. On overflow the oldest samples are
// dropped by advancing the read position.
type CaptureBackend struct {
	appName string

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mu       sync.Mutex
	ring     []float32
	readPos  int
	writePos int
	filled   int
}

// NewCaptureBackend returns an unstarted capture backend. appName is
// reported to the audio server as the stream name.
func NewCaptureBackend(appName string) *CaptureBackend {
	return &CaptureBackend{
		appName: appName,
		ring:    make([]float32, BufferFrames*Channels*ringMultiple),
	}
}

// Start opens the default capture device at the pipeline's fixed format.
// Errors here are expected on machines without audio; the caller falls back
// to the synthetic backend.
func (b *CaptureBackend) Start() error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to init audio context: %w", err)
	}
	b.ctx = ctx

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = Channels
	cfg.SampleRate = SampleRate
	cfg.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			b.push(input, frameCount)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		b.teardownContext()
		return fmt.Errorf("failed to init capture device: %w", err)
	}
	b.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		b.device = nil
		b.teardownContext()
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

// push decodes the callback's little-endian f32 bytes into the ring buffer.
// Runs on miniaudio's thread.
func (b *CaptureBackend) push(input []byte, frameCount uint32) {
	samples := int(frameCount) * Channels
	if samples*4 > len(input) {
		samples = len(input) / 4
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 0; i < samples; i++ {
		bits := binary.LittleEndian.Uint32(input[i*4:])
		b.ring[b.writePos] = math.Float32frombits(bits)
		b.writePos = (b.writePos + 1) % len(b.ring)
		if b.filled == len(b.ring) {
			// Overflow: drop the oldest sample.
			b.readPos = (b.readPos + 1) % len(b.ring)
		} else {
			b.filled++
		}
	}
}

// ReadBuffer drains whole frames from the ring buffer into dst.
func (b *CaptureBackend) ReadBuffer(dst []float32) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	maxFrames := len(dst) / Channels
	frames := b.filled / Channels
	if frames > maxFrames {
		frames = maxFrames
	}

	for i := 0; i < frames*Channels; i++ {
		dst[i] = b.ring[b.readPos]
		b.readPos = (b.readPos + 1) % len(b.ring)
	}
	b.filled -= frames * Channels
	return frames
}

// Close stops the device and releases the context.
func (b *CaptureBackend) Close() error {
	if b.device != nil {
		b.device.Uninit()
		b.device = nil
	}
	b.teardownContext()
	return nil
}

func (b *CaptureBackend) teardownContext() {
	if b.ctx == nil {
		return
	}
	_ = b.ctx.Uninit()
	b.ctx.Free()
	b.ctx = nil
}
