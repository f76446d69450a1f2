package lifecycle

import (
	"errors"
	"strconv"
	"strings"
)

// Integer prefix of the input, 0 when there's none.
// Non-numeric scores are let through as 0.
// A 0x prefix switches to hex, values beyond int64 saturate at its bounds.
func parseMoodScore(s string) int64 {
	s = strings.TrimSpace(s)

	sign := ""
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0
	}

	// Out of range values come back clamped together with ErrRange
	v, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
