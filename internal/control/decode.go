package control

import (
	"strconv"
	"strings"
)

// message is the decoded view of one live-coding payload. Each field tracks
// whether its key was present, so absent keys leave player state untouched.
type message struct {
	player    int
	code      string
	executed  string
	active    bool
	hasPlayer bool
	hasCode   bool
	hasExec   bool
	hasActive bool
}

// parseMessage extracts the recognized keys from a loosely-JSON payload.
// The grammar is deliberately tolerant: it matches `"key":<int>`,
// `"key":<bool>` and `"key":"<string>"` anywhere in the text and ignores
// everything else, so clients may send extra keys freely.
func parseMessage(payload string) message {
	var m message
	if v, ok := extractInt(payload, "player"); ok {
		m.player = v
		m.hasPlayer = true
	}
	if v, ok := extractString(payload, "code"); ok {
		m.code = v
		m.hasCode = true
	}
	if v, ok := extractString(payload, "executed"); ok {
		m.executed = v
		m.hasExec = true
	}
	if v, ok := extractBool(payload, "active"); ok {
		m.active = v
		m.hasActive = true
	}
	return m
}

// valueAfter locates `"key":` and returns the remainder of the payload with
// leading whitespace trimmed.
func valueAfter(payload, key string) (string, bool) {
	marker := `"` + key + `"`
	idx := strings.Index(payload, marker)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(payload[idx+len(marker):], " \t")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimLeft(rest[1:], " \t"), true
}

func extractInt(payload, key string) (int, bool) {
	rest, ok := valueAfter(payload, key)
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(rest) && (rest[end] == '-' && end == 0 || rest[end] >= '0' && rest[end] <= '9') {
		end++
	}
	v, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractBool(payload, key string) (bool, bool) {
	rest, ok := valueAfter(payload, key)
	if !ok {
		return false, false
	}
	switch {
	case strings.HasPrefix(rest, "true"):
		return true, true
	case strings.HasPrefix(rest, "false"):
		return false, true
	default:
		return false, false
	}
}

func extractString(payload, key string) (string, bool) {
	rest, ok := valueAfter(payload, key)
	if !ok || !strings.HasPrefix(rest, `"`) {
		return "", false
	}
	rest = rest[1:]

	var sb strings.Builder
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch c {
		case '\\':
			if i+1 >= len(rest) {
				return "", false // dangling escape, value never closed
			}
			i++
			switch rest[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				// Covers \" and \\; anything else passes through raw.
				sb.WriteByte(rest[i])
			}
		case '"':
			return sb.String(), true
		default:
			sb.WriteByte(c)
		}
	}
	return "", false // unterminated value
}
