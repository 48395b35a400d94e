package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/data/aggregator"
)

// writeDaily prints days grouped by ISO week, each with its projects
func writeDaily(w io.Writer, days []aggregator.DayTotal) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No daily activity.")
		return
	}

	for i, week := range aggregator.GroupByWeek(days) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		first, last := week.Days[0].Date, week.Days[len(week.Days)-1].Date
		fmt.Fprintf(w, "Week %d-W%02d (%s - %s)\n", week.Year, week.Week,
			first.Format("Jan 02"), last.Format("Jan 02"))
		for _, day := range week.Days {
			fmt.Fprintf(w, "  %s: %s\n", day.Date.Format("2006-01-02 (Mon)"), duration.Format(day.Total))
			for _, p := range day.Projects {
				fmt.Fprintf(w, "    - %s: %s\n", p.Project, duration.Format(p.Total))
			}
		}
	}
}
