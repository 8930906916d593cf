package control

import (
	"crypto/sha1"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptToken_RFC6455Example(t *testing.T) {
	t.Parallel()

	// The published example from RFC 6455 §1.3.
	got := acceptToken("dGhlIHNhbXBsZSBub25jZQ==")
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", got)
}

func TestAcceptToken_Base64RoundTrip(t *testing.T) {
	t.Parallel()

	// Decoding the token must recover the SHA-1 digest exactly.
	key := "x3JJHMbDL1EzLkh9GBhXDw=="
	sum := sha1.Sum([]byte(key + websocketGUID))

	token := acceptToken(key)
	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, sum[:], decoded)

	// Re-encoding is idempotent.
	assert.Equal(t, token, base64.StdEncoding.EncodeToString(decoded))
}

func validUpgradeRequest(key string) string {
	return "GET / HTTP/1.1\r\n" +
		"Host: localhost:8080\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: " + key + "\r\n" +
		"Sec-WebSocket-Version: 13\r\n" +
		"\r\n"
}

func TestParseHandshake(t *testing.T) {
	t.Parallel()

	req := validUpgradeRequest("dGhlIHNhbXBsZSBub25jZQ==")

	key, consumed, err := parseHandshake([]byte(req))
	require.NoError(t, err)
	assert.Equal(t, "dGhlIHNhbXBsZSBub25jZQ==", key)
	assert.Equal(t, len(req), consumed)
}

func TestParseHandshake_CaseInsensitiveHeader(t *testing.T) {
	t.Parallel()

	req := "GET / HTTP/1.1\r\nsec-websocket-key: abc123==\r\n\r\n"

	key, _, err := parseHandshake([]byte(req))
	require.NoError(t, err)
	assert.Equal(t, "abc123==", key)
}

func TestParseHandshake_Incomplete(t *testing.T) {
	t.Parallel()

	// No blank line yet: wait for more data, no error.
	key, consumed, err := parseHandshake([]byte("GET / HTTP/1.1\r\nHost: x\r\n"))
	require.NoError(t, err)
	assert.Zero(t, consumed)
	assert.Empty(t, key)
}

func TestParseHandshake_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  string
	}{
		{"missing key header", "GET / HTTP/1.1\r\nHost: x\r\n\r\n"},
		{"not a GET", "POST / HTTP/1.1\r\nSec-WebSocket-Key: k\r\n\r\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := parseHandshake([]byte(tt.req))
			assert.ErrorIs(t, err, ErrMalformedHandshake)
		})
	}
}

func TestParseHandshake_OversizedWithoutTerminator(t *testing.T) {
	t.Parallel()

	junk := []byte("GET / HTTP/1.1\r\n" + strings.Repeat("X-Filler: junk\r\n", 400))
	_, _, err := parseHandshake(junk)
	assert.ErrorIs(t, err, ErrMalformedHandshake)
}

func TestHandshakeResponse(t *testing.T) {
	t.Parallel()

	resp := string(handshakeResponse("dGhlIHNhbXBsZSBub25jZQ=="))
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 101 Switching Protocols\r\n"))
	assert.Contains(t, resp, "Upgrade: websocket\r\n")
	assert.Contains(t, resp, "Connection: Upgrade\r\n")
	assert.Contains(t, resp, "Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n")
	assert.True(t, strings.HasSuffix(resp, "\r\n\r\n"))
}
