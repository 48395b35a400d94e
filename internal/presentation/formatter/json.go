package formatter

import (
	"io"
	"math"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-tt/internal/data/aggregator"
)

type JSONFormatter struct {
	opts Options
}

func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

type jsonPeriod struct {
	Kind  string     `json:"kind"`
	Label string     `json:"label"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type jsonEntry struct {
	Start     time.Time `json:"start"`
	Stop      time.Time `json:"stop"`
	Seconds   int64     `json:"duration_seconds"`
	Source    string    `json:"source"`
	Recovered bool      `json:"recovered,omitempty"`
}

type jsonProject struct {
	Project string      `json:"project"`
	Seconds int64       `json:"total_seconds"`
	Hours   float64     `json:"total_hours"`
	Entries []jsonEntry `json:"entries,omitempty"`
}

type jsonDayProject struct {
	Project string `json:"project"`
	Seconds int64  `json:"seconds"`
}

type jsonDay struct {
	Date     string           `json:"date"`
	Seconds  int64            `json:"total_seconds"`
	Projects []jsonDayProject `json:"projects"`
}

type jsonReport struct {
	Period   jsonPeriod    `json:"period"`
	Seconds  int64         `json:"total_seconds"`
	Hours    float64       `json:"total_hours"`
	Projects []jsonProject `json:"projects"`
	Daily    []jsonDay     `json:"daily,omitempty"`
}

func (f *JSONFormatter) Format(w io.Writer, r *aggregator.Report) error {
	loc := f.opts.location()
	out := jsonReport{
		Period:   jsonPeriod{Kind: string(r.Period.Kind), Label: r.Period.Label()},
		Seconds:  seconds(r.Total),
		Hours:    hours(r.Total),
		Projects: make([]jsonProject, 0, len(r.Projects)),
	}
	if r.Period.Bounded() {
		start, end := r.Period.Start, r.Period.End
		out.Period.Start, out.Period.End = &start, &end
	}

	for _, p := range r.Projects {
		jp := jsonProject{Project: p.Project, Seconds: seconds(p.Total), Hours: hours(p.Total)}
		if f.opts.Detail {
			for _, e := range p.Entries {
				jp.Entries = append(jp.Entries, jsonEntry{
					Start:     e.Start.In(loc),
					Stop:      e.Stop.In(loc),
					Seconds:   seconds(e.Duration),
					Source:    string(e.Source),
					Recovered: e.Recovered,
				})
			}
		}
		out.Projects = append(out.Projects, jp)
	}

	for _, d := range f.opts.Daily {
		jd := jsonDay{Date: d.Date.Format("2006-01-02"), Seconds: seconds(d.Total)}
		for _, p := range d.Projects {
			jd.Projects = append(jd.Projects, jsonDayProject{Project: p.Project, Seconds: seconds(p.Total)})
		}
		out.Daily = append(out.Daily, jd)
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func hours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
