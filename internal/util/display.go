package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorFaint   = "\033[2m"

	ClearScreen    = "\033[2J"   // Clear entire screen
	MoveCursorHome = "\033[H"    // Move cursor to home position
	HideCursor     = "\033[?25l" // Hide cursor
	ShowCursor     = "\033[?25h" // Show cursor
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b\]8;;[^\x1b]*\x1b\\`)

// StripANSI removes color, cursor and hyperlink sequences
func StripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

// GetDisplayWidth calculates the display width of a string, accounting for
// wide runes and ignoring escape sequences
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(StripANSI(text))
}

// PadRight pads text with spaces to the given display width
func PadRight(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

// PadLeft right-aligns text within the given display width
func PadLeft(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", width-w) + text
}

// CenterText centers text within the given display width
func CenterText(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-w)
}

// CreateProgressBar renders a share as a fixed-width bar
func CreateProgressBar(percentage float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int((percentage / 100) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorGreen, title, ColorReset)
}

// FormatFaint dims secondary text
func FormatFaint(text string) string {
	return fmt.Sprintf("%s%s%s", ColorFaint, text, ColorReset)
}

// Hyperlink wraps text in an OSC 8 sequence so supporting terminals make it clickable
func Hyperlink(text, url string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}
