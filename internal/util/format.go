package util

import (
	"fmt"
	"time"
)

// FormatPercentage renders part as a share of total, "0.0%" when total is zero
func FormatPercentage(part, total time.Duration) string {
	return fmt.Sprintf("%.1f%%", Percentage(part, total))
}

// Percentage returns part/total*100, zero when total is zero
func Percentage(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// FormatTimeRange renders a same-day interval as 09:00-10:30 and spans
// across days with the stop date included.
func FormatTimeRange(start, stop time.Time) string {
	if start.YearDay() == stop.YearDay() && start.Year() == stop.Year() {
		return fmt.Sprintf("%s-%s", start.Format("15:04"), stop.Format("15:04"))
	}
	return fmt.Sprintf("%s-%s", start.Format("15:04"), stop.Format("01-02 15:04"))
}
