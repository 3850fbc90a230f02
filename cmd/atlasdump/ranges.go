package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseRanges parses a comma separated list of codepoints and inclusive
// codepoint ranges. Numbers use Go literal syntax, so 65, 0x41 and 0o101
// are the same rune.
func parseRanges(s string) ([]rune, error) {
	var out []rune
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := parseRune(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseRune(hi); err != nil {
				return nil, err
			}
		}
		if last < first {
			return nil, fmt.Errorf("range %q is backwards", part)
		}
		for r := first; r <= last; r++ {
			out = append(out, r)
		}
	}
	return out, nil
}

func parseRune(s string) (rune, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad codepoint %q", s)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("codepoint %#x is not a valid rune", v)
	}
	return r, nil
}

// appendText adds the runes of text that are not in runes yet.
func appendText(runes []rune, text string) []rune {
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		seen[r] = true
	}
	for _, r := range text {
		if !seen[r] {
			seen[r] = true
			runes = append(runes, r)
		}
	}
	return runes
}
