package mood

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// deltaPattern matches a signed adjustment such as "(+7)" or "(-3)".
var deltaPattern = regexp.MustCompile(`\(([+-]\d+)\)`)

// ParseDelta returns the first signed adjustment found in text.
func ParseDelta(text string) (int, bool) {
	match := deltaPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	delta, err := strconv.Atoi(match[1])
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false
		}
		// Anything this large clamps to a bound anyway.
		if strings.HasPrefix(match[1], "-") {
			return -(MaxScore - MinScore), true
		}
		return MaxScore - MinScore, true
	}
	return delta, true
}

// StripDelta removes the first adjustment marker from text and trims the
// surrounding whitespace.
func StripDelta(text string) string {
	loc := deltaPattern.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
}
