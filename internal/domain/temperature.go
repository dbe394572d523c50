package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// parentheticalRe matches parenthesized substrings, used by the source
	// to hold Fahrenheit conversions: "15.2 (59.4)".
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

	// celsiusRe matches the first signed decimal number in a cell. The sign
	// may be an ASCII hyphen or the Unicode minus (U+2212) the page uses.
	celsiusRe = regexp.MustCompile(`[-−]?\d+(?:\.\d+)?`)
)

// ParseTemperature converts raw table-cell text into a Celsius value, or nil
// when the cell holds no usable number. Every failure path resolves to nil;
// this function never returns an error.
func ParseTemperature(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "", "—", "-", "N/A":
		return nil
	}

	// Drop Fahrenheit parentheticals before numeric extraction so "(59.4)"
	// cannot win over the Celsius value.
	cell = parentheticalRe.ReplaceAllString(cell, "")

	match := celsiusRe.FindString(cell)
	if match == "" {
		return nil
	}

	match = strings.ReplaceAll(match, "−", "-")
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}
