// Package aggregator turns completed time entries into per-project reports.
package aggregator

import (
	"sort"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
)

// ProjectReport is one project's share of a report
type ProjectReport struct {
	Project string
	Total   time.Duration
	Entries []model.TimeEntry // ascending by start
}

// Report is the aggregation result.
type Report struct {
	Period   Period
	Projects []ProjectReport // descending by total, ties in order of first appearance
	Total    time.Duration
}

// Empty reports whether no time was recorded
func (r *Report) Empty() bool {
	return len(r.Projects) == 0
}

// Aggregator builds reports in one time zone.
type Aggregator struct {
	location *time.Location
}

// NewAggregatorWithTimezone creates an Aggregator whose periods and day
// boundaries follow loc. A nil loc means time.Local.
func NewAggregatorWithTimezone(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{location: loc}
}

// Location returns the aggregator's zone
func (a *Aggregator) Location() *time.Location {
	return a.location
}

// Period resolves kind around at in the aggregator's zone.
func (a *Aggregator) Period(kind PeriodKind, at time.Time) (Period, error) {
	return NewPeriod(kind, at.In(a.location))
}

// Build clips entries to period and aggregates what remains.
func (a *Aggregator) Build(entries []model.TimeEntry, period Period) *Report {
	r := Aggregate(Clip(entries, period))
	r.Period = period
	return r
}

// Daily clips entries to period and splits them into local days.
func (a *Aggregator) Daily(entries []model.TimeEntry, period Period) []DayTotal {
	return DailyTotals(Clip(entries, period), a.location)
}

// Aggregate groups entries by project and sums them. Pure.
func Aggregate(entries []model.TimeEntry) *Report {
	index := make(map[string]int)
	projects := make([]ProjectReport, 0)

	for _, e := range entries {
		i, ok := index[e.Project]
		if !ok {
			i = len(projects)
			index[e.Project] = i
			projects = append(projects, ProjectReport{Project: e.Project})
		}
		projects[i].Total += e.Duration
		projects[i].Entries = append(projects[i].Entries, e)
	}

	report := &Report{Period: AllTime(), Projects: projects}
	for i := range projects {
		sort.SliceStable(projects[i].Entries, func(a, b int) bool {
			return projects[i].Entries[a].Start.Before(projects[i].Entries[b].Start)
		})
		report.Total += projects[i].Total
	}

	// Stable, so equal totals keep first-appearance order.
	sort.SliceStable(projects, func(a, b int) bool {
		return projects[a].Total > projects[b].Total
	})
	return report
}
