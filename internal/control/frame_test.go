package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeClientFrame builds a masked client frame the way the narrow codec
// expects: 2-byte header, 4-byte mask, payload under 126 bytes.
func encodeClientFrame(opcode byte, mask [4]byte, payload []byte) []byte {
	buf := make([]byte, 0, 6+len(payload))
	buf = append(buf, 0x80|opcode, 0x80|byte(len(payload)))
	buf = append(buf, mask[:]...)

	masked := make([]byte, len(payload))
	copy(masked, payload)
	maskPayload(masked, mask)
	return append(buf, masked...)
}

func TestMaskPayload_SelfInverse(t *testing.T) {
	t.Parallel()

	mask := [4]byte{0x12, 0x34, 0x56, 0x78}
	original := []byte(`{"player":0,"active":true}`)

	p := make([]byte, len(original))
	copy(p, original)

	maskPayload(p, mask)
	assert.NotEqual(t, original, p)

	maskPayload(p, mask)
	assert.Equal(t, original, p)
}

func TestDecodeFrame_Text(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"player":1,"code":"play :kick"}`)
	raw := encodeClientFrame(opText, [4]byte{0xAA, 0xBB, 0xCC, 0xDD}, payload)

	f, consumed, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), consumed)
	assert.Equal(t, byte(opText), f.opcode)
	assert.Equal(t, payload, f.payload)
}

func TestDecodeFrame_Incomplete(t *testing.T) {
	t.Parallel()

	raw := encodeClientFrame(opText, [4]byte{1, 2, 3, 4}, []byte("hello"))

	// Any prefix short of the whole frame decodes to "need more data".
	for cut := 0; cut < len(raw); cut++ {
		f, consumed, err := decodeFrame(raw[:cut])
		require.NoError(t, err, "cut=%d", cut)
		assert.Zero(t, consumed, "cut=%d", cut)
		assert.Nil(t, f.payload)
	}
}

func TestDecodeFrame_TrailingBytesPreserved(t *testing.T) {
	t.Parallel()

	first := encodeClientFrame(opText, [4]byte{9, 9, 9, 9}, []byte("one"))
	second := encodeClientFrame(opText, [4]byte{7, 7, 7, 7}, []byte("two"))
	raw := append(append([]byte{}, first...), second...)

	f, consumed, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), f.payload)
	assert.Equal(t, len(first), consumed)

	f2, consumed2, err := decodeFrame(raw[consumed:])
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), f2.payload)
	assert.Equal(t, len(second), consumed2)
}

func TestDecodeFrame_RejectsExtendedLength(t *testing.T) {
	t.Parallel()

	// Length byte 126 announces a 16-bit length, which the codec does not
	// speak.
	raw := []byte{0x81, 0x80 | 126, 0x00, 0x80}
	_, _, err := decodeFrame(raw)
	assert.ErrorIs(t, err, ErrExtendedLength)

	raw = []byte{0x81, 0x80 | 127}
	_, _, err = decodeFrame(raw)
	assert.ErrorIs(t, err, ErrExtendedLength)
}

func TestDecodeFrame_RejectsUnmasked(t *testing.T) {
	t.Parallel()

	raw := []byte{0x81, 0x05, 'h', 'e', 'l', 'l', 'o'}
	_, _, err := decodeFrame(raw)
	assert.ErrorIs(t, err, ErrUnmaskedFrame)
}

func TestDecodeFrame_RejectsFragmented(t *testing.T) {
	t.Parallel()

	// FIN=0 announces a continuation to follow.
	raw := []byte{0x01, 0x85, 1, 2, 3, 4, 0, 0, 0, 0, 0}
	_, _, err := decodeFrame(raw)
	assert.ErrorIs(t, err, ErrFragmentedFrame)

	// Opcode 0 is a continuation frame itself.
	raw = []byte{0x80, 0x85, 1, 2, 3, 4, 0, 0, 0, 0, 0}
	_, _, err = decodeFrame(raw)
	assert.ErrorIs(t, err, ErrFragmentedFrame)
}

func TestDecodeFrame_Close(t *testing.T) {
	t.Parallel()

	raw := encodeClientFrame(opClose, [4]byte{1, 2, 3, 4}, nil)
	f, consumed, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(opClose), f.opcode)
	assert.Equal(t, 6, consumed)
}
