package model

import (
	"fmt"
	"time"
)

// ParseError reports duration text that matched no grammar
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Input, e.Reason)
}

// NoActiveSessionError is returned by stop and heartbeat when nothing is being tracked
type NoActiveSessionError struct{}

func (e *NoActiveSessionError) Error() string {
	return "no active session"
}

// AlreadyTrackingError is returned by start while a live session exists
type AlreadyTrackingError struct {
	Project string
	Since   time.Time
	Owner   Owner
}

func (e *AlreadyTrackingError) Error() string {
	return fmt.Sprintf("already tracking %q since %s", e.Project, e.Since.Format("2006-01-02 15:04"))
}

// LockTimeoutError means another process held the data file lock too long
type LockTimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for lock on %s", e.Timeout, e.Path)
}

// CorruptDataError means the data file exists but cannot be trusted.
// The file is left untouched.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data file %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// InvalidProjectError rejects an empty project name
type InvalidProjectError struct {
	Input string
}

func (e *InvalidProjectError) Error() string {
	return fmt.Sprintf("invalid project name %q", e.Input)
}
