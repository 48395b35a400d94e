package track

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/util"
)

const glyphHeight = 5

var glyphs = map[rune][glyphHeight]string{
	'0': {" ░░░ ", "░   ░", "░   ░", "░   ░", " ░░░ "},
	'1': {"  ░  ", " ░░  ", "  ░  ", "  ░  ", " ░░░ "},
	'2': {" ░░░ ", "    ░", " ░░░ ", "░    ", "░░░░░"},
	'3': {"░░░░ ", "    ░", " ░░░ ", "    ░", "░░░░ "},
	'4': {"░  ░ ", "░  ░ ", "░░░░░", "   ░ ", "   ░ "},
	'5': {"░░░░░", "░    ", "░░░░ ", "    ░", "░░░░ "},
	'6': {" ░░░ ", "░    ", "░░░░ ", "░   ░", " ░░░ "},
	'7': {"░░░░░", "   ░ ", "  ░  ", " ░   ", " ░   "},
	'8': {" ░░░ ", "░   ░", " ░░░ ", "░   ░", " ░░░ "},
	'9': {" ░░░ ", "░   ░", " ░░░░", "    ░", " ░░░ "},
	':': {"     ", "  ░  ", "     ", "  ░  ", "     "},
}

// BigDigits renders text (digits and colons) as five rows of block glyphs
func BigDigits(text string) []string {
	rows := make([]string, glyphHeight)
	for i, ch := range text {
		g, ok := glyphs[ch]
		if !ok {
			g = glyphs['0']
		}
		for r := 0; r < glyphHeight; r++ {
			if i > 0 {
				rows[r] += "  "
			}
			rows[r] += g[r]
		}
	}
	return rows
}

// Display draws the tracking clock as a single full-screen frame
type Display struct {
	out     io.Writer
	width   func() int
	project string
	start   time.Time
	drawn   bool
}

// NewDisplay creates a display; width reports the current terminal columns
func NewDisplay(out io.Writer, width func() int, project string, start time.Time) *Display {
	return &Display{out: out, width: width, project: project, start: start}
}

// Frame builds the text for one redraw at now
func (d *Display) Frame(now time.Time) string {
	width := d.width()
	var b strings.Builder

	b.WriteString(util.ClearScreen + util.MoveCursorHome)
	b.WriteString("\r\n")
	for _, row := range BigDigits(now.Format("15:04:05")) {
		b.WriteString(util.ColorCyan + util.CenterText(row, width) + util.ColorReset + "\r\n")
	}
	b.WriteString("\r\n")

	lines := []string{
		util.FormatHeaderTitle("tracking: " + d.project),
		"started " + d.start.Format("2006-01-02 15:04:05"),
		"elapsed " + util.ColorBold + duration.Clock(now.Sub(d.start)) + util.ColorReset,
		"",
		util.FormatFaint("q or ctrl+c to stop"),
	}
	for _, line := range lines {
		b.WriteString(util.CenterText(line, width) + "\r\n")
	}
	return b.String()
}

// Render redraws the frame
func (d *Display) Render(now time.Time) {
	if !d.drawn {
		fmt.Fprint(d.out, util.HideCursor)
		d.drawn = true
	}
	fmt.Fprint(d.out, d.Frame(now))
}

// Close restores the cursor if anything was drawn
func (d *Display) Close() {
	if d.drawn {
		fmt.Fprint(d.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor)
		d.drawn = false
	}
}
