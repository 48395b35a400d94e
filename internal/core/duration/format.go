package duration

import (
	"fmt"
	"time"
)

// Format renders d in the compound clock form Parse accepts (1h30m, 45m, 2h).
// Seconds are dropped.
func Format(d time.Duration) string {
	if d < 0 {
		return "-" + Format(-d)
	}
	total := int64(d / time.Minute)
	hours, minutes := total/60, total%60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
}

// Clock renders d as H:MM:SS for live displays.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Hours renders d as decimal hours with two places, the invoicing unit.
func Hours(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Hours())
}
