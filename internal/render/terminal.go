package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal handles raw mode, the alternate screen and cursor visibility
// for the render loop. All escape output goes through the same writer the
// frames use.
type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
}

// NewTerminal creates a Terminal reading from stdin and writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{in: os.Stdin, out: out}
}

// Setup enters raw mode, switches to the alternate screen and hides the
// cursor. Call Restore before the process exits, on every path.
func (t *Terminal) Setup() error {
	fd := int(t.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.oldState = oldState

	fmt.Fprint(t.out, "\x1b[?1049h\x1b[?25l\x1b[2J")
	return nil
}

// Restore leaves the alternate screen, shows the cursor and exits raw
// mode. Safe to call when Setup failed or was never called.
func (t *Terminal) Restore() {
	fmt.Fprint(t.out, "\x1b[?25h\x1b[?1049l")

	if t.oldState != nil {
		_ = term.Restore(int(t.in.Fd()), t.oldState)
		t.oldState = nil
	}
}

// Size returns the current terminal dimensions, with a sane fallback when
// the output is not a terminal.
func (t *Terminal) Size() (width, height int) {
	width, height, err := term.GetSize(int(t.in.Fd()))
	if err != nil || width < 2 || height < 2 {
		return 80, 24
	}
	return width, height
}

// ReadKeys forwards single key presses from stdin to the returned channel
// until stdin closes. Used by the run command to catch quit keys while the
// terminal is raw.
func (t *Terminal) ReadKeys() <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := t.in.Read(buf)
			if err != nil {
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()
	return keys
}
