package search

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CleanString trims the value and returns "" for whitespace-only input, so an
// empty parameter behaves exactly like an absent one.
func CleanString(value string) string {
	return strings.TrimSpace(value)
}

// ParseNumber parses a finite number out of a raw parameter. Empty and
// unparseable values report ok=false (absent), never zero.
func ParseNumber(value string) (float64, bool) {
	s := CleanString(value)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseBool parses boolean parameters from a small literal vocabulary.
// Anything outside it reports ok=false: the filter is not applied, the value
// is never coerced to false.
func ParseBool(value string) (bool, bool) {
	switch strings.ToLower(CleanString(value)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// ParseDate parses a calendar date parameter. Unparseable input reports
// ok=false and is treated as absent, not as an error.
func ParseDate(value string) (time.Time, bool) {
	s := CleanString(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// SplitCSV splits a comma-separated parameter into trimmed tokens, dropping
// empty ones.
func SplitCSV(value string) []string {
	var out []string
	for _, tok := range strings.Split(value, ",") {
		if s := CleanString(tok); s != "" {
			out = append(out, s)
		}
	}
	return out
}
