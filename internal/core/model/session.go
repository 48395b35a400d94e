package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Owner identifies the process that opened an ActiveSession
type Owner struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	StartedAt time.Time `json:"started_at"`
	Detached  bool      `json:"detached,omitempty"` // no foreground process keeps it alive
}

// Same reports whether two owners describe the same process
func (o Owner) Same(other Owner) bool {
	return o.PID == other.PID && o.Host == other.Host && o.StartedAt.Equal(other.StartedAt)
}

// String returns a short pid@host form
func (o Owner) String() string {
	if o.Detached {
		return fmt.Sprintf("detached (%d@%s)", o.PID, o.Host)
	}
	return fmt.Sprintf("%d@%s", o.PID, o.Host)
}

// ActiveSession is the open interval, at most one per log file
type ActiveSession struct {
	Project       string
	Start         time.Time
	LastHeartbeat time.Time // zero when no liveness evidence was ever recorded
	Owner         Owner

	Extra map[string]json.RawMessage
}

// Elapsed returns the time since the session started
func (s *ActiveSession) Elapsed(now time.Time) time.Duration {
	if now.Before(s.Start) {
		return 0
	}
	return now.Sub(s.Start)
}

// CloseAt converts the session into a tracked entry ending at stop.
func (s *ActiveSession) CloseAt(stop time.Time) TimeEntry {
	return NewTrackedEntry(s.Project, s.Start, stop)
}

// Matches reports whether entry is the closed form of this session.
func (s *ActiveSession) Matches(entry TimeEntry) bool {
	return s.Project == entry.Project && s.Start.Equal(entry.Start)
}
