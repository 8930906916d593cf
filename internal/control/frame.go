package control

import "errors"

// WebSocket opcodes (RFC 6455 §5.2).
const (
	opContinuation = 0x0
	opText         = 0x1
	opBinary       = 0x2
	opClose        = 0x8
	opPing         = 0x9
	opPong         = 0xA
)

// Frame decode errors. All of them drop the sending connection; the narrow
// codec never guesses at data it cannot represent.
var (
	ErrExtendedLength  = errors.New("extended payload length not supported")
	ErrFragmentedFrame = errors.New("fragmented frames not supported")
	ErrUnmaskedFrame   = errors.New("client frame is not masked")
)

// frame is one decoded client data frame.
type frame struct {
	opcode  byte
	payload []byte
}

// decodeFrame reads one minimal client frame from buf: a 2-byte header, a
// 4-byte mask and an already-unmasked copy of the payload. consumed == 0
// with a nil error means buf does not yet hold a whole frame.
func decodeFrame(buf []byte) (f frame, consumed int, err error) {
	if len(buf) < 2 {
		return frame{}, 0, nil
	}

	fin := buf[0]&0x80 != 0
	opcode := buf[0] & 0x0F
	masked := buf[1]&0x80 != 0
	length := int(buf[1] & 0x7F)

	if !fin || opcode == opContinuation {
		return frame{}, 0, ErrFragmentedFrame
	}
	if length >= 126 {
		return frame{}, 0, ErrExtendedLength
	}
	if !masked {
		return frame{}, 0, ErrUnmaskedFrame
	}

	total := 2 + 4 + length
	if len(buf) < total {
		return frame{}, 0, nil
	}

	var mask [4]byte
	copy(mask[:], buf[2:6])

	payload := make([]byte, length)
	copy(payload, buf[6:total])
	maskPayload(payload, mask)

	return frame{opcode: opcode, payload: payload}, total, nil
}

// maskPayload XORs p in place with the repeating 4-byte mask key. Masking
// is self-inverse: applying it twice restores the original bytes.
func maskPayload(p []byte, mask [4]byte) {
	for i := range p {
		p[i] ^= mask[i%4]
	}
}
