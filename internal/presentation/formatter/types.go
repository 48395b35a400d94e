// Package formatter renders aggregated reports for the terminal and for
// export.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/data/aggregator"
)

// Formatter writes one report
type Formatter interface {
	Format(w io.Writer, r *aggregator.Report) error
}

// Options shared by all formatters
type Options struct {
	// Detail lists individual entries under each project
	Detail bool
	// Daily, when non-nil, adds a per-day breakdown grouped by week
	Daily []aggregator.DayTotal
	// Location renders entry times; nil means time.Local
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Output names accepted by New
const (
	OutputTable   = "table"
	OutputSummary = "summary"
	OutputJSON    = "json"
	OutputCSV     = "csv"
)

// Outputs lists every output name
var Outputs = []string{OutputTable, OutputSummary, OutputJSON, OutputCSV}

// New returns the formatter registered under name
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case OutputTable, "":
		return NewTableFormatter(opts), nil
	case OutputSummary:
		return NewSummaryFormatter(opts), nil
	case OutputJSON:
		return NewJSONFormatter(opts), nil
	case OutputCSV:
		return NewCSVFormatter(opts), nil
	}
	return nil, fmt.Errorf("unknown output %q (want %s)", name, strings.Join(Outputs, ", "))
}

// entryNote marks entries that were not tracked normally
func entryNote(source string, recovered bool) string {
	switch {
	case recovered:
		return "recovered"
	case source == "manual":
		return "manual"
	}
	return ""
}
