package session

import "time"

// Config controls how the manager judges other processes' sessions
type Config struct {
	// StaleTolerance is how old the last heartbeat of a non-detached
	// session may get before the session is considered abandoned.
	// It must comfortably exceed the tracker's heartbeat interval.
	StaleTolerance time.Duration
}

const (
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultStaleTolerance    = 60 * time.Second
)

// DefaultConfig returns the default configuration
var DefaultConfig = Config{
	StaleTolerance: DefaultStaleTolerance,
}
