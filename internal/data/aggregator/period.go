package aggregator

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/util"
)

// PeriodKind selects a reporting window
type PeriodKind string

const (
	PeriodAll   PeriodKind = "all"
	PeriodMonth PeriodKind = "month"
	PeriodWeek  PeriodKind = "week"
	PeriodDay   PeriodKind = "day"
)

// PeriodKinds lists the accepted kinds in help order
var PeriodKinds = []PeriodKind{PeriodMonth, PeriodWeek, PeriodDay, PeriodAll}

// ParsePeriodKind accepts a kind name case-insensitively
func ParsePeriodKind(s string) (PeriodKind, error) {
	kind := PeriodKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range PeriodKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want month, week, day or all)", s)
}

// Period is the half-open window [Start, End). Both are zero for all time.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// AllTime is the unbounded period
func AllTime() Period {
	return Period{Kind: PeriodAll}
}

// NewPeriod builds the calendar period of kind containing at, in at's zone.
// Weeks are ISO weeks starting on Monday.
func NewPeriod(kind PeriodKind, at time.Time) (Period, error) {
	day := util.StartOfDay(at)
	switch kind {
	case PeriodAll, "":
		return AllTime(), nil
	case PeriodDay:
		return Period{Kind: kind, Start: day, End: day.AddDate(0, 0, 1)}, nil
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Kind: kind, Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Period{Kind: kind, Start: start, End: start.AddDate(0, 1, 0)}, nil
	}
	return Period{}, fmt.Errorf("unknown period %q", kind)
}

// Bounded reports whether the period has limits
func (p Period) Bounded() bool {
	return p.Kind != PeriodAll && !p.Start.IsZero()
}

// LastDay is the final calendar day inside the period
func (p Period) LastDay() time.Time {
	return p.End.AddDate(0, 0, -1)
}

// Label is the human title, e.g. "August 2025"
func (p Period) Label() string {
	switch p.Kind {
	case PeriodMonth:
		return p.Start.Format("January 2006")
	case PeriodWeek:
		year, week := p.Start.ISOWeek()
		return fmt.Sprintf("Week %d-W%02d", year, week)
	case PeriodDay:
		return p.Start.Format("2006-01-02 (Mon)")
	}
	return "All Time"
}

// Slug names the export folder, e.g. "August-2025"
func (p Period) Slug() string {
	switch p.Kind {
	case PeriodMonth:
		return p.Start.Format("January-2006")
	case PeriodWeek:
		year, week := p.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodDay:
		return p.Start.Format("2006-01-02")
	}
	return "All-Time"
}

// Range renders the inclusive day span, empty for all time
func (p Period) Range() string {
	if !p.Bounded() {
		return ""
	}
	return fmt.Sprintf("%s to %s", p.Start.Format("2006-01-02"), p.LastDay().Format("2006-01-02"))
}

// Clip keeps the part of each entry that overlaps the period. Entries that
// straddle a boundary are trimmed to it; entries outside are dropped.
// Zero-length entries are kept when they start inside the period.
func Clip(entries []model.TimeEntry, p Period) []model.TimeEntry {
	if !p.Bounded() {
		return entries
	}

	clipped := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Stop.After(e.Start) {
			if !e.Start.Before(p.Start) && e.Start.Before(p.End) {
				clipped = append(clipped, e)
			}
			continue
		}
		start, stop := e.Start, e.Stop
		if start.Before(p.Start) {
			start = p.Start
		}
		if stop.After(p.End) {
			stop = p.End
		}
		if !stop.After(start) {
			continue
		}
		if !start.Equal(e.Start) || !stop.Equal(e.Stop) {
			e.Start, e.Stop = start, stop
			e.Duration = stop.Sub(start)
		}
		clipped = append(clipped, e)
	}
	return clipped
}
