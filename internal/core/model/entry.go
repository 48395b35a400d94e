package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeEntry is a completed work interval. It is never modified once written.
type TimeEntry struct {
	Project   string
	Start     time.Time
	Stop      time.Time
	Duration  time.Duration
	Source    Source
	Recovered bool // closed automatically after its owner died

	// Extra holds fields written by newer versions of the tool.
	Extra map[string]json.RawMessage
}

// NewTrackedEntry closes a live interval.
func NewTrackedEntry(project string, start, stop time.Time) TimeEntry {
	if stop.Before(start) {
		stop = start
	}
	return TimeEntry{
		Project:  project,
		Start:    start,
		Stop:     stop,
		Duration: stop.Sub(start),
		Source:   SourceTracked,
	}
}

// NewManualEntry places a logged duration so that it ends at stop.
func NewManualEntry(project string, d time.Duration, stop time.Time) TimeEntry {
	if d < 0 {
		d = 0
	}
	return TimeEntry{
		Project:  project,
		Start:    stop.Add(-d),
		Stop:     stop,
		Duration: d,
		Source:   SourceManual,
	}
}

// Validate checks the invariants every persisted entry must hold.
func (e *TimeEntry) Validate() error {
	if e.Project == "" {
		return fmt.Errorf("empty project")
	}
	if e.Stop.Before(e.Start) {
		return fmt.Errorf("stop %s before start %s", e.Stop.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	if e.Duration < 0 {
		return fmt.Errorf("negative duration %s", e.Duration)
	}
	if !e.Source.Valid() {
		return fmt.Errorf("unknown source %q", e.Source)
	}
	return nil
}

// NormalizeProject trims the name and collapses inner whitespace runs.
func NormalizeProject(name string) (string, error) {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return "", &InvalidProjectError{Input: name}
	}
	return normalized, nil
}
