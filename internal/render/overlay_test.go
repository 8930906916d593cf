package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thruflo/strobe/internal/engine"
)

func bufferText(b *Buffer) string {
	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		sb.WriteString(b.Row(y))
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestDrawOverlay_ActivePlayer(t *testing.T) {
	t.Parallel()

	b := NewBuffer(80, 24)
	var players [engine.NumPlayers]engine.Player
	players[0] = engine.Player{
		Name:     "Player 1",
		Code:     "live_loop :bass do\n  play :c2\nend",
		Executed: "play :c2",
		Active:   true,
	}

	DrawOverlay(b, players)
	out := bufferText(b)

	assert.Contains(t, out, "Player 1")
	assert.Contains(t, out, "● Player 1")
	assert.Contains(t, out, "> play :c2")
	assert.Contains(t, out, "play :c2")
	assert.NotContains(t, out, "Player 2")
}

func TestDrawOverlay_IdlePlayersSkipped(t *testing.T) {
	t.Parallel()

	b := NewBuffer(80, 24)
	var players [engine.NumPlayers]engine.Player
	players[0].Name = "Player 1"
	players[1].Name = "Player 2"

	DrawOverlay(b, players)
	assert.Equal(t, strings.Repeat(" ", 80), b.Row(1))
}

func TestDrawOverlay_NarrowTerminal(t *testing.T) {
	t.Parallel()

	// Too narrow for a pane: the overlay draws nothing rather than wrap.
	b := NewBuffer(20, 10)
	var players [engine.NumPlayers]engine.Player
	players[0] = engine.Player{Name: "Player 1", Code: "x", Active: true}

	DrawOverlay(b, players)
	assert.NotContains(t, bufferText(b), "Player 1")
}

func TestCodeTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     string
		width    int
		maxLines int
		want     []string
	}{
		{"empty", "", 10, 4, nil},
		{"single line", "play :kick", 20, 4, []string{"play :kick"}},
		{"wraps long line", "abcdefgh", 4, 4, []string{"abcd", "efgh"}},
		{
			"keeps tail",
			"one\ntwo\nthree\nfour\nfive",
			20, 3,
			[]string{"three", "four", "five"},
		},
		{"preserves blank lines", "a\n\nb", 20, 4, []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, codeTail(tt.code, tt.width, tt.maxLines))
		})
	}
}

func TestDrawStatus(t *testing.T) {
	t.Parallel()

	b := NewBuffer(80, 24)
	audio := engine.AudioFrame{Bass: 0.5, Mid: 0.25, Treble: 0.75, Valid: true}

	DrawStatus(b, audio, 128, 60)
	status := b.Row(23)

	assert.Contains(t, status, "128 bpm")
	assert.Contains(t, status, "in:audio")
	assert.Contains(t, status, "b0.50")
	assert.Contains(t, status, "60 fps")
}

func TestDrawStatus_InvalidAudio(t *testing.T) {
	t.Parallel()

	b := NewBuffer(80, 24)
	DrawStatus(b, engine.AudioFrame{}, 120, 30)

	assert.Contains(t, b.Row(23), "in:off")
}
