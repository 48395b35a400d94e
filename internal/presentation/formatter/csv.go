package formatter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/data/aggregator"
)

// CSVHeader is the first record of every export
var CSVHeader = []string{"Project", "Date", "Start", "Stop", "Source", "Hours"}

type CSVFormatter struct {
	opts Options
}

func NewCSVFormatter(opts Options) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

func (f *CSVFormatter) Format(w io.Writer, r *aggregator.Report) error {
	return ToCSV(w, r, f.opts.location())
}

// ToCSV writes one record per entry, a subtotal record after each project
// and a final total, with hours to two decimals.
func ToCSV(w io.Writer, r *aggregator.Report, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, p := range r.Projects {
		for _, e := range p.Entries {
			start, stop := e.Start.In(loc), e.Stop.In(loc)
			source := string(e.Source)
			if e.Recovered {
				source += " (recovered)"
			}
			record := []string{
				p.Project,
				start.Format("2006-01-02"),
				start.Format("15:04"),
				stop.Format("15:04"),
				source,
				duration.Hours(e.Duration),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{p.Project, "Subtotal", "", "", "", duration.Hours(p.Total)}); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{"Total", "", "", "", "", duration.Hours(r.Total)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
