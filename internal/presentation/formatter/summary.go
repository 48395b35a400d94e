package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/data/aggregator"
	"github.com/penwyp/go-tt/internal/util"
)

const shareBarWidth = 20

// SummaryFormatter prints a compact key/value overview
type SummaryFormatter struct {
	opts Options
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(opts Options) *SummaryFormatter {
	return &SummaryFormatter{opts: opts}
}

func (f *SummaryFormatter) Format(w io.Writer, r *aggregator.Report) error {
	fmt.Fprintln(w, strings.Repeat("=", 48))
	fmt.Fprintln(w, util.FormatDataTitle("Time Sheet Summary"))
	fmt.Fprintln(w, strings.Repeat("=", 48))

	head := uitable.New()
	head.Separator = "  "
	head.AddRow("Period:", r.Period.Label())
	if rng := r.Period.Range(); rng != "" {
		head.AddRow("Range:", rng)
	}
	head.AddRow("Total:", fmt.Sprintf("%s (%s h)", duration.Format(r.Total), duration.Hours(r.Total)))
	head.AddRow("Projects:", len(r.Projects))
	fmt.Fprintln(w, head)
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "No time recorded.")
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("PROJECT", "TIME", "HOURS", "SHARE", "")
		for _, p := range r.Projects {
			tbl.AddRow(p.Project, duration.Format(p.Total), duration.Hours(p.Total),
				util.FormatPercentage(p.Total, r.Total), util.CreateProgressBar(util.Percentage(p.Total, r.Total), shareBarWidth))
		}
		tbl.RightAlign(1)
		tbl.RightAlign(2)
		tbl.RightAlign(3)
		fmt.Fprintln(w, tbl)
	}

	if f.opts.Daily != nil {
		fmt.Fprintln(w)
		writeDaily(w, f.opts.Daily)
	}
	return nil
}
