package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/util"
)

// ProjectTotal is a project's time within one day
type ProjectTotal struct {
	Project string
	Total   time.Duration
}

// DayTotal is the time recorded on one local calendar day
type DayTotal struct {
	Date     time.Time // local midnight
	Projects []ProjectTotal
	Total    time.Duration
}

// WeekGroup collects the days of one ISO week
type WeekGroup struct {
	Year int
	Week int
	Days []DayTotal
}

// DailyTotals splits entries at local midnight and totals each day per
// project. Days ascend; projects within a day sort case-insensitively.
func DailyTotals(entries []model.TimeEntry, loc *time.Location) []DayTotal {
	if loc == nil {
		loc = time.Local
	}

	type dayBucket struct {
		date     time.Time
		projects map[string]time.Duration
	}
	buckets := make(map[int64]*dayBucket)

	add := func(day time.Time, project string, d time.Duration) {
		b, ok := buckets[day.Unix()]
		if !ok {
			b = &dayBucket{date: day, projects: make(map[string]time.Duration)}
			buckets[day.Unix()] = b
		}
		b.projects[project] += d
	}

	for _, e := range entries {
		start := e.Start.In(loc)
		stop := e.Stop.In(loc)
		if !stop.After(start) {
			// Zero-length entries still show up on their day.
			add(util.StartOfDay(start), e.Project, e.Duration)
			continue
		}
		for start.Before(stop) {
			day := util.StartOfDay(start)
			next := day.AddDate(0, 0, 1)
			end := stop
			if next.Before(end) {
				end = next
			}
			add(day, e.Project, end.Sub(start))
			start = end
		}
	}

	days := make([]DayTotal, 0, len(buckets))
	for _, b := range buckets {
		day := DayTotal{Date: b.date}
		for project, d := range b.projects {
			day.Projects = append(day.Projects, ProjectTotal{Project: project, Total: d})
			day.Total += d
		}
		sort.Slice(day.Projects, func(i, j int) bool {
			a, b := strings.ToLower(day.Projects[i].Project), strings.ToLower(day.Projects[j].Project)
			if a != b {
				return a < b
			}
			return day.Projects[i].Project < day.Projects[j].Project
		})
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// GroupByWeek groups ascending days into consecutive ISO weeks
func GroupByWeek(days []DayTotal) []WeekGroup {
	var weeks []WeekGroup
	for _, d := range days {
		year, week := d.Date.ISOWeek()
		if n := len(weeks); n > 0 && weeks[n-1].Year == year && weeks[n-1].Week == week {
			weeks[n-1].Days = append(weeks[n-1].Days, d)
			continue
		}
		weeks = append(weeks, WeekGroup{Year: year, Week: week, Days: []DayTotal{d}})
	}
	return weeks
}
