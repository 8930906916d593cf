package render

import (
	"fmt"
	"strings"

	"github.com/thruflo/strobe/internal/engine"
)

// Overlay dimensions. Each player pane shows the name line, the last
// executed statement, and the tail of the current code block.
const (
	paneWidth     = 30
	paneCodeLines = 6
)

// Box drawing characters.
const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxHorizontal  = "─"
	boxVertical    = "│"
)

// DrawOverlay paints the live-coding player panes along the top-right edge.
// Inactive players with no code are skipped entirely so an unused engine
// shows a clean scene.
func DrawOverlay(buf *Buffer, players [engine.NumPlayers]engine.Player) {
	x := buf.W - paneWidth - 1
	if x < 0 {
		return
	}

	y := 1
	for _, p := range players {
		if !p.Active && p.Code == "" {
			continue
		}
		y = drawPane(buf, x, y, p) + 1
	}
}

// drawPane draws one player pane at (x, y) and returns the row below it.
func drawPane(buf *Buffer, x, y int, p engine.Player) int {
	inner := paneWidth - 2

	marker := "·"
	if p.Active {
		marker = "●"
	}
	title := fmt.Sprintf(" %s %s ", marker, p.Name)

	lines := []string{}
	if p.Executed != "" {
		lines = append(lines, "> "+p.Executed)
	}
	lines = append(lines, codeTail(p.Code, inner-2, paneCodeLines)...)

	buf.Text(x, y, boxTopLeft+padRight(title, inner, boxHorizontal)+boxTopRight)
	row := y + 1
	for _, line := range lines {
		buf.Text(x, row, boxVertical+" "+padRight(clip(line, inner-2), inner-2, " ")+" "+boxVertical)
		row++
	}
	buf.Text(x, row, boxBottomLeft+strings.Repeat(boxHorizontal, inner)+boxBottomRight)
	return row
}

// DrawStatus paints the engine status line along the bottom row: tempo,
// beat flash, audio levels and frame rate.
func DrawStatus(buf *Buffer, audio engine.AudioFrame, bpm float64, fps float64) {
	beat := " "
	if audio.BeatDetected || audio.BeatIntensity > 0.5 {
		beat = "◆"
	}

	source := "audio"
	if !audio.Valid {
		source = "off"
	}

	status := fmt.Sprintf(" %s %.0f bpm  in:%s  b%.2f m%.2f t%.2f  %.0f fps ",
		beat, bpm, source, audio.Bass, audio.Mid, audio.Treble, fps)
	buf.Text(0, buf.H-1, clip(status, buf.W))
}

// codeTail returns the last maxLines display lines of code, wrapped to
// width.
func codeTail(code string, width, maxLines int) []string {
	if code == "" || width <= 0 {
		return nil
	}

	var wrapped []string
	for _, line := range strings.Split(code, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			wrapped = append(wrapped, "")
			continue
		}
		for len(runes) > 0 {
			n := len(runes)
			if n > width {
				n = width
			}
			wrapped = append(wrapped, string(runes[:n]))
			runes = runes[n:]
		}
	}

	if len(wrapped) > maxLines {
		wrapped = wrapped[len(wrapped)-maxLines:]
	}
	return wrapped
}

// clip truncates s to at most width display runes.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

// padRight pads s with the filler string to the given rune width.
func padRight(s string, width int, filler string) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return clip(s, width)
	}
	return s + strings.Repeat(filler, n)
}
