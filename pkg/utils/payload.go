package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodePayload turns a raw inbound message into a structured value when
// it holds JSON, the decoded text when it is UTF-8, and the raw bytes
// otherwise.
func DecodePayload(raw []byte) interface{} {
	if !utf8.Valid(raw) {
		return raw
	}
	text := string(raw)
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return text
	}
	return decoded
}

// EnsureNumber reads an id the way drivers and topics hand them over:
// numbers pass through, strings are parsed from their leading digits and
// anything unparsable becomes 0.
func EnsureNumber(o interface{}) int {
	switch v := o.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		if math.IsNaN(v) {
			return 0
		}
		return int(v)
	case string:
		return parseLeadingInt(v)
	default:
		return parseLeadingInt(fmt.Sprint(v))
	}
}

func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
