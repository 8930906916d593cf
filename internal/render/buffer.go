// Package render provides the fixed-cadence render loop: a single-threaded
// consumer that copies state out of the engine snapshot once per frame,
// draws the active scene, and overlays the live-coding player panes.
package render

import (
	"io"
	"strings"
)

// Buffer is one frame's worth of terminal cells.
type Buffer struct {
	W, H  int
	cells []rune
}

// NewBuffer returns a cleared buffer of the given size.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{W: w, H: h, cells: make([]rune, w*h)}
	b.Clear()
	return b
}

// Clear fills the buffer with spaces.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = ' '
	}
}

// Set writes a rune at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.cells[y*b.W+x] = r
}

// Get returns the rune at (x, y), or a space when out of bounds.
func (b *Buffer) Get(x, y int) rune {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return ' '
	}
	return b.cells[y*b.W+x]
}

// Text writes a string starting at (x, y), clipped to the buffer edge.
func (b *Buffer) Text(x, y int, s string) {
	for i, r := range []rune(s) {
		b.Set(x+i, y, r)
	}
}

// Row returns row y as a string.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.H {
		return ""
	}
	return string(b.cells[y*b.W : (y+1)*b.W])
}

// WriteTo paints the whole buffer: cursor home, then every row. A full
// repaint per frame keeps the terminal state independent of the previous
// frame.
func (b *Buffer) WriteTo(w io.Writer) error {
	var sb strings.Builder
	sb.Grow(b.W*b.H + b.H*8)

	sb.WriteString("\x1b[H")
	for y := 0; y < b.H; y++ {
		sb.WriteString(string(b.cells[y*b.W : (y+1)*b.W]))
		if y < b.H-1 {
			sb.WriteString("\r\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
