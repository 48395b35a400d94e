package session

import (
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
)

// ProcessProbe answers liveness questions about processes on this host
type ProcessProbe interface {
	// Alive reports whether pid still runs here. Unknown counts as alive.
	Alive(pid int) bool
	// Host names this machine the way Owner.Host records it
	Host() string
}

// IsStale decides whether s has been abandoned by its owner.
//
// Detached sessions and sessions without any recorded heartbeat are never
// stale. Otherwise a session is stale once its heartbeat is older than
// tolerance, or immediately when its owner ran on this host and is gone.
func IsStale(s *model.ActiveSession, now time.Time, tolerance time.Duration, probe ProcessProbe) bool {
	if s == nil || s.Owner.Detached || s.LastHeartbeat.IsZero() {
		return false
	}
	if now.Sub(s.LastHeartbeat) > tolerance {
		return true
	}
	if probe != nil && s.Owner.Host != "" && s.Owner.Host == probe.Host() {
		return !probe.Alive(s.Owner.PID)
	}
	return false
}

// RecoveryStop is where a stale session gets closed: its last heartbeat,
// never before its start.
func RecoveryStop(s *model.ActiveSession) time.Time {
	if s.LastHeartbeat.Before(s.Start) {
		return s.Start
	}
	return s.LastHeartbeat
}

// Recover closes a stale session as a recovered tracked entry
func Recover(s *model.ActiveSession) model.TimeEntry {
	entry := s.CloseAt(RecoveryStop(s))
	entry.Recovered = true
	return entry
}
