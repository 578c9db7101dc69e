package normalizer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate_Serials(t *testing.T) {
	tests := []struct {
		serial float64
		want   string
	}{
		{25569, "1970-01-01"}, // unix epoch
		{45356, "2024-03-05"},
		{44927, "2023-01-01"},
		{1, "1899-12-31"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("serial %v", tt.serial), func(t *testing.T) {
			got := NormalizeDate(tt.serial, MonthFirst)
			assert.Equal(t, tt.want, got.Value)
			assert.False(t, got.Defaulted)
		})
	}
}

func TestNormalizeDate_SerialOffsetFromEpoch(t *testing.T) {
	// Every valid serial n is exactly n days after 1899-12-30.
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{100, 10000, 43831, 45000, 50000} {
		got := NormalizeDate(float64(n), MonthFirst)
		want := epoch.AddDate(0, 0, n).Format("2006-01-02")
		assert.Equal(t, want, got.Value, "serial %d", n)
	}
}

func TestNormalizeDate_StringFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ISO dash", "2024-03-04", "2024-03-04"},
		{"ISO dash single digits", "2024-3-4", "2024-03-04"},
		{"year slash", "2024/03/04", "2024-03-04"},
		{"year slash single digits", "2024/3/4", "2024-03-04"},
		{"kanji full", "2024年3月4日", "2024-03-04"},
		{"month first wins the ambiguity", "03/04/2024", "2024-03-04"},
		{"day first only when month is impossible", "25/12/2024", "2024-12-25"},
		{"four digit year MDY", "12/25/2024", "2024-12-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input, MonthFirst)
			assert.Equal(t, tt.want, got.Value)
			assert.False(t, got.Defaulted)
		})
	}
}

func TestNormalizeDate_CurrentYearDefaults(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	got := normalizeDateAt("3/4", MonthFirst, now)
	assert.Equal(t, "2025-03-04", got.Value)

	got = normalizeDateAt("3月4日", MonthFirst, now)
	assert.Equal(t, "2025-03-04", got.Value)
}

func TestNormalizeDate_DayFirstOrder(t *testing.T) {
	got := NormalizeDate("03/04/2024", DayFirst)
	assert.Equal(t, "2024-04-03", got.Value)

	// Unambiguous inputs are unaffected by the order.
	got = NormalizeDate("2024-03-04", DayFirst)
	assert.Equal(t, "2024-03-04", got.Value)
}

func TestNormalizeDate_Garbage(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"free text", "not a date"},
		{"impossible date", "2024-02-30"},
		{"month 13", "13/32/2024"},
		{"bare year", "2024"},
		{"negative serial", -5.0},
		{"unsupported type", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input, MonthFirst)
			assert.Empty(t, got.Value)
			assert.True(t, got.Defaulted)
		})
	}
}

func TestNormalizeDate_EmptyIsNotDefaulted(t *testing.T) {
	got := NormalizeDate("", MonthFirst)
	assert.Empty(t, got.Value)
	assert.False(t, got.Defaulted)

	got = NormalizeDate(nil, MonthFirst)
	assert.Empty(t, got.Value)
	assert.False(t, got.Defaulted)
}

func TestNormalizeDate_SerialString(t *testing.T) {
	got := NormalizeDate("45356", MonthFirst)
	assert.Equal(t, "2024-03-05", got.Value)
}
