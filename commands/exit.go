package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/penwyp/go-tt/internal/core/model"
)

// Exit codes. 10-19 are user errors, 20-29 retryable, 30-39 data problems.
const (
	ExitOK             = 0
	ExitUnexpected     = 1
	ExitParse          = 10
	ExitNoSession      = 11
	ExitAlreadyRunning = 12
	ExitUsage          = 13
	ExitLockTimeout    = 20
	ExitCorruptData    = 30
)

// UsageError reports bad arguments or flags
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by Execute to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		parseErr    *model.ParseError
		noSession   *model.NoActiveSessionError
		already     *model.AlreadyTrackingError
		invalid     *model.InvalidProjectError
		usage       *UsageError
		lockTimeout *model.LockTimeoutError
		corrupt     *model.CorruptDataError
	)
	switch {
	case errors.As(err, &parseErr):
		return ExitParse
	case errors.As(err, &noSession):
		return ExitNoSession
	case errors.As(err, &already):
		return ExitAlreadyRunning
	case errors.As(err, &invalid), errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &lockTimeout), errors.Is(err, context.DeadlineExceeded):
		return ExitLockTimeout
	case errors.As(err, &corrupt):
		return ExitCorruptData
	}
	return ExitUnexpected
}

// ErrorMessage renders err for the terminal with a hint where one helps
func ErrorMessage(err error) string {
	var (
		noSession   *model.NoActiveSessionError
		already     *model.AlreadyTrackingError
		lockTimeout *model.LockTimeoutError
		corrupt     *model.CorruptDataError
	)
	switch {
	case errors.As(err, &already):
		return fmt.Sprintf("%v (owner %s). Use 'tt time stop' first.", err, already.Owner)
	case errors.As(err, &noSession):
		return "No active timer."
	case errors.As(err, &lockTimeout):
		return fmt.Sprintf("%v. Another tt command is busy; try again.", err)
	case errors.As(err, &corrupt):
		return fmt.Sprintf("%v. The file was left untouched; fix or move it aside.", err)
	}
	return err.Error()
}
