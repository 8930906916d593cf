package control

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"
)

// websocketGUID is the fixed GUID appended to the client key when computing
// the accept token (RFC 6455 §4.2.2).
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// maxHandshakeBytes bounds how much request data a client may send before
// completing the handshake.
const maxHandshakeBytes = 4096

// ErrMalformedHandshake indicates an upgrade request that cannot be served.
var ErrMalformedHandshake = errors.New("malformed websocket handshake")

// acceptToken computes the Sec-WebSocket-Accept value for a client key.
func acceptToken(key string) string {
	sum := sha1.Sum([]byte(key + websocketGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// parseHandshake scans buf for a complete HTTP upgrade request and extracts
// the Sec-WebSocket-Key header. It returns the number of bytes consumed;
// consumed == 0 with a nil error means the request is still incomplete.
func parseHandshake(buf []byte) (key string, consumed int, err error) {
	end := strings.Index(string(buf), "\r\n\r\n")
	if end < 0 {
		if len(buf) > maxHandshakeBytes {
			return "", 0, ErrMalformedHandshake
		}
		return "", 0, nil
	}
	request := string(buf[:end])
	consumed = end + 4

	lines := strings.Split(request, "\r\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "GET ") {
		return "", consumed, ErrMalformedHandshake
	}

	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Sec-WebSocket-Key") {
			key = strings.TrimSpace(value)
		}
	}
	if key == "" {
		return "", consumed, ErrMalformedHandshake
	}
	return key, consumed, nil
}

// handshakeResponse builds the 101 Switching Protocols reply for a client
// key.
func handshakeResponse(key string) []byte {
	var sb strings.Builder
	sb.WriteString("HTTP/1.1 101 Switching Protocols\r\n")
	sb.WriteString("Upgrade: websocket\r\n")
	sb.WriteString("Connection: Upgrade\r\n")
	sb.WriteString("Sec-WebSocket-Accept: ")
	sb.WriteString(acceptToken(key))
	sb.WriteString("\r\n\r\n")
	return []byte(sb.String())
}
