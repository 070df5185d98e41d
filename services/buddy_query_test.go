package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTravelDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso date", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2026-03-15T10:30:00Z", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"millis timestamp", "2026-03-15T10:30:00.000Z", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"day first", "15-03-2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"padded", "  2026-03-15  ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTravelDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseTravelDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2026/03/15", "15.03.2026"} {
		_, err := ParseTravelDate(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestDayWindowUTC(t *testing.T) {
	start, end := DayWindowUTC(time.Date(2026, 3, 15, 18, 45, 12, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 999000000, time.UTC), end)
}

func TestDayWindowUTCNormalizesZone(t *testing.T) {
	// 23:30 in UTC+5:30 is 18:00 UTC, still the 15th
	loc := time.FixedZone("IST", 5*3600+1800)
	start, _ := DayWindowUTC(time.Date(2026, 3, 15, 23, 30, 0, 0, loc))

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
}

func TestCodeAlternation(t *testing.T) {
	assert.Equal(t, "^NDLS$", codeAlternation([]string{"NDLS"}))
	assert.Equal(t, "^NDLS$|^DLI$|^NZM$", codeAlternation([]string{"NDLS", "DLI", "NZM"}))
}

func TestCodeAlternationQuotesMetaCharacters(t *testing.T) {
	// A hostile "code" must not widen the match
	pattern := codeAlternation([]string{".*"})
	assert.Equal(t, `^\.\*$`, pattern)
}

func TestClassifyMatch(t *testing.T) {
	assert.Equal(t, MatchExact, ClassifyMatch("NDLS", "BCT", "NDLS", "BCT"))
	assert.Equal(t, MatchExact, ClassifyMatch("ndls", "bct", "NDLS", "BCT"), "case must not matter")
	assert.Equal(t, MatchCity, ClassifyMatch("DLI", "BCT", "NDLS", "BCT"), "same-city boarding is not exact")
	assert.Equal(t, MatchCity, ClassifyMatch("NDLS", "CSMT", "NDLS", "BCT"), "same-city destination is not exact")
}

func TestSortByMatchTypeExactFirstStable(t *testing.T) {
	buddies := []Buddy{
		{Username: "a", MatchType: MatchCity},
		{Username: "b", MatchType: MatchExact},
		{Username: "c", MatchType: MatchCity},
		{Username: "d", MatchType: MatchExact},
	}

	SortByMatchType(buddies)

	got := make([]string, 0, len(buddies))
	for _, b := range buddies {
		got = append(got, b.Username)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, got,
		"exact matches lead and relative order within each group is preserved")
}
