// Package session implements the start/stop/log lifecycle on top of the
// store. Every operation runs as one locked update, and any stale session
// left by a dead process is closed inside that same update before the
// operation itself is applied.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/data/store"
	"github.com/penwyp/go-tt/internal/util"
)

// Store is the persistence the manager needs
type Store interface {
	Load() (*model.LogFile, error)
	Update(ctx context.Context, fn func(lf *model.LogFile) error) error
}

// Manager applies lifecycle operations on behalf of one process
type Manager struct {
	store  Store
	clock  util.Clock
	probe  ProcessProbe
	owner  model.Owner
	config Config
}

// NewManager creates a manager acting as owner
func NewManager(s Store, clock util.Clock, probe ProcessProbe, owner model.Owner, config Config) *Manager {
	if config.StaleTolerance <= 0 {
		config.StaleTolerance = DefaultStaleTolerance
	}
	return &Manager{
		store:  s,
		clock:  clock,
		probe:  probe,
		owner:  owner,
		config: config,
	}
}

// Owner returns the identity this manager writes into sessions it opens
func (m *Manager) Owner() model.Owner {
	return m.owner
}

// StartOptions modify Start
type StartOptions struct {
	// Detached sessions have no foreground heartbeat and are never stale
	Detached bool
}

// StartResult is the outcome of Start
type StartResult struct {
	Session   *model.ActiveSession
	Recovered *model.TimeEntry
}

// Start opens a session for project. It fails with AlreadyTrackingError
// while a live session exists; a stale one is recovered first.
func (m *Manager) Start(ctx context.Context, project string, opts StartOptions) (*StartResult, error) {
	name, err := model.NormalizeProject(project)
	if err != nil {
		return nil, err
	}

	result := &StartResult{}
	err = m.store.Update(ctx, func(lf *model.LogFile) error {
		now := m.clock.Now()
		result.Recovered = m.reconcile(lf, now)
		if lf.Active != nil {
			return &model.AlreadyTrackingError{
				Project: lf.Active.Project,
				Since:   lf.Active.Start,
				Owner:   lf.Active.Owner,
			}
		}

		owner := m.owner
		owner.Detached = opts.Detached
		s := &model.ActiveSession{
			Project:       name,
			Start:         now,
			LastHeartbeat: now,
			Owner:         owner,
		}
		lf.Active = s
		result.Session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Heartbeat refreshes the liveness evidence of the session this manager
// owns. Any other state is reported as NoActiveSessionError so the caller
// knows its session was ended elsewhere.
func (m *Manager) Heartbeat(ctx context.Context) error {
	return m.store.Update(ctx, func(lf *model.LogFile) error {
		if lf.Active == nil || !lf.Active.Owner.Same(m.owner) {
			return &model.NoActiveSessionError{}
		}
		lf.Active.LastHeartbeat = m.clock.Now()
		return nil
	})
}

// StopResult is the outcome of Stop
type StopResult struct {
	Entry model.TimeEntry
	// Recovered is set when the session had gone stale and was closed at
	// its last heartbeat instead of now.
	Recovered bool
}

// Stop closes the active session whoever opened it
func (m *Manager) Stop(ctx context.Context) (*StopResult, error) {
	return m.stop(ctx, false)
}

// StopOwned closes the active session only if this manager opened it
func (m *Manager) StopOwned(ctx context.Context) (*StopResult, error) {
	return m.stop(ctx, true)
}

func (m *Manager) stop(ctx context.Context, ownedOnly bool) (*StopResult, error) {
	var result *StopResult
	err := m.store.Update(ctx, func(lf *model.LogFile) error {
		if lf.Active == nil {
			return &model.NoActiveSessionError{}
		}
		if ownedOnly && !lf.Active.Owner.Same(m.owner) {
			return &model.NoActiveSessionError{}
		}

		now := m.clock.Now()
		if recovered := m.reconcile(lf, now); recovered != nil {
			result = &StopResult{Entry: *recovered, Recovered: true}
			return nil
		}

		entry := lf.Active.CloseAt(now)
		lf.Append(entry)
		result = &StopResult{Entry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LogResult is the outcome of LogManual
type LogResult struct {
	Entry     model.TimeEntry
	Recovered *model.TimeEntry
}

// LogManual records a manual entry of the parsed duration ending now.
// It never touches a live active session.
func (m *Manager) LogManual(ctx context.Context, project, durationText string) (*LogResult, error) {
	name, err := model.NormalizeProject(project)
	if err != nil {
		return nil, err
	}
	d, err := duration.Parse(durationText)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, &model.ParseError{Input: durationText, Reason: "duration must be greater than zero"}
	}

	result := &LogResult{}
	err = m.store.Update(ctx, func(lf *model.LogFile) error {
		now := m.clock.Now()
		result.Recovered = m.reconcile(lf, now)
		result.Entry = model.NewManualEntry(name, d, now)
		lf.Append(result.Entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reconcile closes a stale active session, if any, and returns the
// recovered entry. Nothing is written when there is nothing to recover.
func (m *Manager) Reconcile(ctx context.Context) (*model.TimeEntry, error) {
	var recovered *model.TimeEntry
	err := m.store.Update(ctx, func(lf *model.LogFile) error {
		recovered = m.reconcile(lf, m.clock.Now())
		if recovered == nil {
			return store.ErrSkipSave
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recovered, nil
}

// Status describes the active slot after reconciliation
type Status struct {
	Active    *model.ActiveSession
	Elapsed   time.Duration
	Owned     bool
	Recovered *model.TimeEntry
}

// Status reconciles and then reports what is being tracked
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	err := m.store.Update(ctx, func(lf *model.LogFile) error {
		now := m.clock.Now()
		st.Recovered = m.reconcile(lf, now)
		if lf.Active != nil {
			active := *lf.Active
			st.Active = &active
			st.Elapsed = active.Elapsed(now)
			st.Owned = active.Owner.Same(m.owner)
		}
		if st.Recovered == nil {
			return store.ErrSkipSave
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Owns reports, without locking, whether the active session is still the
// one this manager opened.
func (m *Manager) Owns() (bool, error) {
	lf, err := m.store.Load()
	if err != nil {
		return false, err
	}
	return lf.Active != nil && lf.Active.Owner.Same(m.owner), nil
}

// Entries loads every completed entry after reconciling
func (m *Manager) Entries(ctx context.Context) ([]model.TimeEntry, *model.TimeEntry, error) {
	recovered, err := m.Reconcile(ctx)
	if err != nil {
		var lockErr *model.LockTimeoutError
		if !errors.As(err, &lockErr) {
			return nil, nil, err
		}
		// Reading does not need the lock; report from what is on disk.
	}
	lf, err := m.store.Load()
	if err != nil {
		return nil, nil, err
	}
	return lf.Entries, recovered, nil
}

func (m *Manager) reconcile(lf *model.LogFile, now time.Time) *model.TimeEntry {
	if lf.Active == nil || lf.Active.Owner.Same(m.owner) {
		return nil
	}
	if !IsStale(lf.Active, now, m.config.StaleTolerance, m.probe) {
		return nil
	}
	entry := Recover(lf.Active)
	lf.Append(entry)
	return &entry
}
