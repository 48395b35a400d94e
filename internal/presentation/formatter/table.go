package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/data/aggregator"
	"github.com/penwyp/go-tt/internal/util"
)

type TableFormatter struct {
	headers []string
	opts    Options
}

func NewTableFormatter(opts Options) *TableFormatter {
	return &TableFormatter{
		headers: []string{"Project", "Entries", "Time", "Hours", "Share"},
		opts:    opts,
	}
}

type tableRow struct {
	values []string
	kind   string // "data", "detail" or "total"
}

func (f *TableFormatter) Format(w io.Writer, r *aggregator.Report) error {
	fmt.Fprintln(w, reportTitle(r))
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "No time recorded.")
	} else {
		rows := f.buildRows(r)
		widths := f.calculateColumnWidths(rows)

		f.printBorder(w, widths, "top")
		f.printRow(w, tableRow{values: f.headers, kind: "header"}, widths)
		f.printBorder(w, widths, "middle")
		for _, row := range rows {
			if row.kind == "total" {
				f.printBorder(w, widths, "middle")
			}
			f.printRow(w, row, widths)
		}
		f.printBorder(w, widths, "bottom")
	}

	if f.opts.Daily != nil {
		fmt.Fprintln(w)
		writeDaily(w, f.opts.Daily)
	}
	return nil
}

func (f *TableFormatter) buildRows(r *aggregator.Report) []tableRow {
	loc := f.opts.location()
	var rows []tableRow
	for _, p := range r.Projects {
		rows = append(rows, tableRow{kind: "data", values: []string{
			p.Project,
			fmt.Sprintf("%d", len(p.Entries)),
			duration.Format(p.Total),
			duration.Hours(p.Total),
			util.FormatPercentage(p.Total, r.Total),
		}})
		if !f.opts.Detail {
			continue
		}
		for _, e := range p.Entries {
			start, stop := e.Start.In(loc), e.Stop.In(loc)
			label := "└ " + start.Format("2006-01-02") + " " + util.FormatTimeRange(start, stop)
			if note := entryNote(string(e.Source), e.Recovered); note != "" {
				label += " (" + note + ")"
			}
			rows = append(rows, tableRow{kind: "detail", values: []string{
				label, "", duration.Format(e.Duration), duration.Hours(e.Duration), "",
			}})
		}
	}

	entries := 0
	for _, p := range r.Projects {
		entries += len(p.Entries)
	}
	rows = append(rows, tableRow{kind: "total", values: []string{
		"Total",
		fmt.Sprintf("%d", entries),
		duration.Format(r.Total),
		duration.Hours(r.Total),
		util.FormatPercentage(r.Total, r.Total),
	}})
	return rows
}

// calculateColumnWidths sizes columns by display width so wide runes line up
func (f *TableFormatter) calculateColumnWidths(rows []tableRow) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row.values {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(w, b.String())
}

// printRow left-aligns the project column and right-aligns the numbers
func (f *TableFormatter) printRow(w io.Writer, row tableRow, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range row.values {
		if i == 0 {
			b.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		}
	}
	fmt.Fprintln(w, b.String())
}

func reportTitle(r *aggregator.Report) string {
	title := "Report for " + r.Period.Label()
	if rng := r.Period.Range(); rng != "" {
		title += " (" + rng + ")"
	}
	return title
}
