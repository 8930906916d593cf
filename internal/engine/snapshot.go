// Package engine provides the shared state bridging the audio and control
// workers with the render loop. A Snapshot is the only structure touched
// from more than one goroutine; everything else in the engine is owned by
// exactly one loop.
package engine

import (
	"sync"
	"time"
)

// SpectrumBands is the number of magnitude bands in a published AudioFrame.
const SpectrumBands = 64

// NumPlayers is the number of live-coding player slots.
const NumPlayers = 2

// Byte bounds for Player text fields. Remote payloads are truncated to fit,
// never rejected.
const (
	MaxCodeBytes     = 511
	MaxExecutedBytes = 255
)

// AudioFrame is one published set of spectral, level and beat analysis
// results. Frames are overwritten wholesale on each publish; readers always
// observe a complete frame from a single analysis cycle.
type AudioFrame struct {
	Bass   float64
	Mid    float64
	Treble float64
	Volume float64

	Spectrum [SpectrumBands]float64

	BeatDetected  bool
	BeatIntensity float64

	// Valid is false when the audio pipeline is disabled or has not yet
	// published a frame.
	Valid bool
}

// Player is the remote-control state for one live-coding participant.
// Mutated only by the control server; read-only to the render loop.
type Player struct {
	Name      string
	Code      string
	Executed  string
	Active    bool
	UpdatedAt time.Time
}

// Snapshot is the synchronization boundary between the two producer
// goroutines (audio pipeline, control server) and the render loop.
//
// The audio frame and the player records sit behind independent locks so
// the producers never contend with each other; each lock is held only for
// the duration of a fixed-size struct copy.
type Snapshot struct {
	audioMu sync.Mutex
	audio   AudioFrame

	liveMu  sync.Mutex
	players [NumPlayers]Player
}

// NewSnapshot returns a Snapshot with named, inactive player slots and an
// invalid audio frame.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.players[0].Name = "Player 1"
	s.players[1].Name = "Player 2"
	return s
}

// PublishAudio overwrites the current audio frame.
func (s *Snapshot) PublishAudio(f AudioFrame) {
	s.audioMu.Lock()
	s.audio = f
	s.audioMu.Unlock()
}

// Audio returns a copy of the most recently published audio frame.
func (s *Snapshot) Audio() AudioFrame {
	s.audioMu.Lock()
	f := s.audio
	s.audioMu.Unlock()
	return f
}

// UpdatePlayer applies fn to the player in the given slot under the live
// lock. Slots outside [0, NumPlayers) are ignored. Text fields are
// truncated to their byte bounds after fn returns, so callers cannot
// publish oversized values.
func (s *Snapshot) UpdatePlayer(slot int, fn func(*Player)) {
	if slot < 0 || slot >= NumPlayers {
		return
	}
	s.liveMu.Lock()
	fn(&s.players[slot])
	clampPlayer(&s.players[slot])
	s.liveMu.Unlock()
}

// Players returns a copy of both player records.
func (s *Snapshot) Players() [NumPlayers]Player {
	s.liveMu.Lock()
	p := s.players
	s.liveMu.Unlock()
	return p
}

func clampPlayer(p *Player) {
	p.Code = truncate(p.Code, MaxCodeBytes)
	p.Executed = truncate(p.Executed, MaxExecutedBytes)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && s[max]&0xC0 == 0x80 {
		max--
	}
	return s[:max]
}
