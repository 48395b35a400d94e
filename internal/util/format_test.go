package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		name     string
		part     time.Duration
		total    time.Duration
		expected string
	}{
		{name: "zero total", part: time.Hour, total: 0, expected: "0.0%"},
		{name: "half", part: 30 * time.Minute, total: time.Hour, expected: "50.0%"},
		{name: "third", part: 20 * time.Minute, total: time.Hour, expected: "33.3%"},
		{name: "all", part: time.Hour, total: time.Hour, expected: "100.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPercentage(tt.part, tt.total))
		})
	}
}

func TestFormatTimeRange(t *testing.T) {
	start := time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "09:00-10:30", FormatTimeRange(start, start.Add(90*time.Minute)))
	assert.Equal(t, "09:00-08-05 01:00", FormatTimeRange(start, start.Add(16*time.Hour)))
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, 4, GetDisplayWidth("日本"))
	assert.Equal(t, "日本  ", PadRight("日本", 6))
	assert.Equal(t, "  ab", PadLeft("ab", 4))
	assert.Equal(t, " ab  ", CenterText("ab", 5))
	assert.Equal(t, "abcdef", CenterText("abcdef", 3))
	assert.Equal(t, 2, GetDisplayWidth(ColorBold+"ab"+ColorReset))
	assert.Equal(t, "go", StripANSI(Hyperlink("go", "https://go.dev")))
	assert.Equal(t, "█████░░░░░", CreateProgressBar(50, 10))
	assert.Equal(t, "██████████", CreateProgressBar(150, 10))
	assert.Equal(t, "\x1b]8;;file:///tmp/a.csv\x1b\\a.csv\x1b]8;;\x1b\\", Hyperlink("a.csv", "file:///tmp/a.csv"))
}
