// Package track runs the foreground loop that keeps a session alive while
// `tt time start` is in the foreground.
package track

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/core/session"
	"github.com/penwyp/go-tt/internal/util"
	"golang.org/x/term"
)

// SessionController is the part of the session manager the loop drives
type SessionController interface {
	Heartbeat(ctx context.Context) error
	StopOwned(ctx context.Context) (*session.StopResult, error)
	Owns() (bool, error)
}

// Reason tells why the loop ended
type Reason string

const (
	ReasonInterrupted    Reason = "interrupted"     // this process stopped the session
	ReasonEndedElsewhere Reason = "ended_elsewhere" // another process stopped or replaced it
)

// Result is the outcome of Run
type Result struct {
	Reason Reason
	Entry  *model.TimeEntry // set when this process closed the session
}

// Tracker keeps one active session alive until it is interrupted or ended
// by someone else
type Tracker struct {
	sessions SessionController
	active   *model.ActiveSession
	dataPath string
	clock    util.Clock
	config   Config
}

func NewTracker(sessions SessionController, active *model.ActiveSession, dataPath string, clock util.Clock, config Config) *Tracker {
	return &Tracker{
		sessions: sessions,
		active:   active,
		dataPath: dataPath,
		clock:    clock,
		config:   config.withDefaults(),
	}
}

// Run blocks until ctx is cancelled, a stop key is pressed, or the session
// is ended elsewhere
func (t *Tracker) Run(ctx context.Context) (*Result, error) {
	out := t.config.Output
	if out == nil {
		out = os.Stdout
	}

	var display *Display
	var refresh <-chan time.Time
	if t.config.ShowClock && isTerminal(out) {
		display = NewDisplay(out, terminalWidth(out), t.active.Project, t.active.Start)
		defer display.Close()
		display.Render(t.clock.Now())

		ticker := time.NewTicker(t.config.RefreshInterval)
		defer ticker.Stop()
		refresh = ticker.C
	}

	var keys <-chan rune
	if t.config.Keyboard && term.IsTerminal(int(os.Stdin.Fd())) {
		kr, err := NewKeyboardReader()
		if err != nil {
			util.LogWarnf("Keyboard input unavailable: %v", err)
		} else {
			defer kr.Close()
			keys = kr.Events()
		}
	}

	var changes <-chan struct{}
	if t.dataPath != "" {
		fw, err := NewFileWatcher(t.dataPath)
		if err != nil {
			util.LogWarnf("Watching %s failed, relying on heartbeats: %v", t.dataPath, err)
		} else {
			defer fw.Close()
			changes = fw.Events()
		}
	}

	heartbeat := time.NewTicker(t.config.HeartbeatInterval)
	defer heartbeat.Stop()

	util.LogInfof("Tracking %q, heartbeat every %s", t.active.Project, t.config.HeartbeatInterval)

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Tracking interrupted")
			return t.finish()

		case key := <-keys:
			if isStopKey(key) {
				util.LogInfo("Stop key pressed")
				return t.finish()
			}

		case <-heartbeat.C:
			err := t.sessions.Heartbeat(ctx)
			if err == nil {
				continue
			}
			var none *model.NoActiveSessionError
			var corrupt *model.CorruptDataError
			switch {
			case errors.As(err, &none):
				util.LogInfo("Session ended by another process")
				return &Result{Reason: ReasonEndedElsewhere}, nil
			case errors.As(err, &corrupt):
				util.LogErrorf("Data file became unreadable: %v", err)
				return nil, err
			case ctx.Err() != nil:
				// picked up by the ctx.Done case
			default:
				util.LogWarnf("Heartbeat failed: %v", err)
			}

		case <-changes:
			owns, err := t.sessions.Owns()
			if err != nil {
				util.LogWarnf("Re-reading data file failed: %v", err)
				continue
			}
			if !owns {
				util.LogInfo("Session ended by another process")
				return &Result{Reason: ReasonEndedElsewhere}, nil
			}

		case <-refresh:
			display.Render(t.clock.Now())
		}
	}
}

// finish closes the session if this process still owns it. It uses its
// own deadline because ctx is usually already cancelled here.
func (t *Tracker) finish() (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.config.StopTimeout)
	defer cancel()

	res, err := t.sessions.StopOwned(ctx)
	if err != nil {
		var none *model.NoActiveSessionError
		if errors.As(err, &none) {
			return &Result{Reason: ReasonEndedElsewhere}, nil
		}
		return &Result{Reason: ReasonInterrupted}, err
	}
	return &Result{Reason: ReasonInterrupted, Entry: &res.Entry}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) func() int {
	return func() int {
		f, ok := w.(*os.File)
		if !ok {
			return 80
		}
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil || width <= 0 {
			return 80
		}
		return width
	}
}
