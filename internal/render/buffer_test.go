package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_SetGet(t *testing.T) {
	t.Parallel()

	b := NewBuffer(10, 4)
	b.Set(3, 2, '#')

	assert.Equal(t, '#', b.Get(3, 2))
	assert.Equal(t, ' ', b.Get(0, 0))
}

func TestBuffer_OutOfBoundsDropped(t *testing.T) {
	t.Parallel()

	b := NewBuffer(4, 4)
	b.Set(-1, 0, 'x')
	b.Set(0, -1, 'x')
	b.Set(4, 0, 'x')
	b.Set(0, 4, 'x')

	for y := 0; y < 4; y++ {
		assert.Equal(t, "    ", b.Row(y))
	}
	assert.Equal(t, ' ', b.Get(99, 99))
}

func TestBuffer_Text(t *testing.T) {
	t.Parallel()

	b := NewBuffer(8, 2)
	b.Text(2, 1, "hi")
	assert.Equal(t, "  hi    ", b.Row(1))

	// Text is clipped at the right edge.
	b.Text(6, 0, "long")
	assert.Equal(t, "      lo", b.Row(0))
}

func TestBuffer_Clear(t *testing.T) {
	t.Parallel()

	b := NewBuffer(3, 3)
	b.Text(0, 0, "xyz")
	b.Clear()
	assert.Equal(t, "   ", b.Row(0))
}

func TestBuffer_WriteTo(t *testing.T) {
	t.Parallel()

	b := NewBuffer(3, 2)
	b.Text(0, 0, "ab")
	b.Text(0, 1, "cd")

	var sb strings.Builder
	require.NoError(t, b.WriteTo(&sb))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[H"), "frame must home the cursor")
	assert.Contains(t, out, "ab ")
	assert.Contains(t, out, "cd ")
	// Rows are joined with CRLF for raw-mode output.
	assert.Equal(t, 1, strings.Count(out, "\r\n"))
}
