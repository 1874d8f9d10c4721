package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	n, ok := ParseNumber(" 42.5 ")
	assert.True(t, ok)
	assert.Equal(t, 42.5, n)

	_, ok = ParseNumber("")
	assert.False(t, ok, "absent is not zero")

	_, ok = ParseNumber("12abc")
	assert.False(t, ok)

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf", "inf"} {
		_, ok = ParseNumber(raw)
		assert.False(t, ok, "non-finite %q must read as absent", raw)
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2025-06-15")
	require.True(t, ok)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, time.Local, d.Location())

	_, ok = ParseDate("15/06/2025")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)

	d, ok = ParseDate("2025-06-15T10:30:00Z")
	require.True(t, ok, "RFC3339 timestamps are accepted too")
	assert.Equal(t, 15, d.UTC().Day())
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"Lift", "Parking"}, SplitCSV("Lift, Parking"))
	assert.Equal(t, []string{"Lift"}, SplitCSV(",Lift,,"))
	assert.Nil(t, SplitCSV(""))
	assert.Nil(t, SplitCSV(" , ,"))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "", CleanString("   "))
	assert.Equal(t, "Pune", CleanString("  Pune "))
}
