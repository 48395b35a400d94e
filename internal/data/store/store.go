// Package store owns the persisted log file. Every mutation is a single
// lock, load, modify, save cycle against the file; nothing is cached
// between calls because other processes may have changed it.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/util"
)

const (
	DefaultLockTimeout  = 5 * time.Second
	DefaultPollInterval = 25 * time.Millisecond

	dataFileMode = 0600
)

// ErrSkipSave may be returned by an Update callback to release the lock
// without writing.
var ErrSkipSave = errors.New("skip save")

// Store reads and writes one log file guarded by a sidecar lock file.
type Store struct {
	path         string
	lockPath     string
	lockTimeout  time.Duration
	pollInterval time.Duration
}

// Option customizes a Store
type Option func(*Store)

// WithLockTimeout bounds how long mutating calls wait for the lock
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithPollInterval sets how often a contended lock is retried
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// New creates a store for the log file at path. The file need not exist.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:         path,
		lockPath:     path + ".lock",
		lockTimeout:  DefaultLockTimeout,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the log file without taking the lock. A missing file is an
// empty log; an unreadable one is a *model.CorruptDataError.
func (s *Store) Load() (*model.LogFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLogFile(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	lf, err := decode(data)
	if err != nil {
		return nil, &model.CorruptDataError{Path: s.path, Err: err}
	}
	return lf, nil
}

// Save replaces the whole file with lf under the lock.
func (s *Store) Save(ctx context.Context, lf *model.LogFile) error {
	return s.withLock(ctx, func() error {
		return s.write(lf)
	})
}

// Update runs fn against a freshly loaded log while holding the lock and
// saves the result. If fn fails nothing is written and its error is
// returned, except ErrSkipSave which yields nil. A corrupt file aborts
// before fn runs, so it is never overwritten.
func (s *Store) Update(ctx context.Context, fn func(lf *model.LogFile) error) error {
	return s.withLock(ctx, func() error {
		lf, err := s.Load()
		if err != nil {
			return err
		}
		if err := fn(lf); err != nil {
			if errors.Is(err, ErrSkipSave) {
				return nil
			}
			return err
		}
		if err := lf.Validate(); err != nil {
			return fmt.Errorf("refusing to save invalid log: %w", err)
		}
		return s.write(lf)
	})
}

// AppendEntry appends a completed entry, clearing the active session if
// the entry is its closed form. It is the single-purpose form of Update;
// callers that must check and change state under one lock use Update.
func (s *Store) AppendEntry(ctx context.Context, entry model.TimeEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return s.Update(ctx, func(lf *model.LogFile) error {
		lf.Append(entry)
		return nil
	})
}

// SetActiveSession replaces the active slot; nil clears it. Like
// AppendEntry it is a single-purpose form of Update.
func (s *Store) SetActiveSession(ctx context.Context, session *model.ActiveSession) error {
	return s.Update(ctx, func(lf *model.LogFile) error {
		lf.Active = session
		return nil
	})
}

func (s *Store) write(lf *model.LogFile) error {
	if lf.Version == 0 {
		lf.Version = model.LogFileVersion
	}
	data, err := encode(lf)
	if err != nil {
		return fmt.Errorf("failed to encode log: %w", err)
	}
	return util.WriteFileAtomic(s.path, data, dataFileMode)
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	lock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer lock.unlock()
	return fn()
}

// acquire polls the non-blocking lock until it is granted, the timeout
// passes, or ctx is done.
func (s *Store) acquire(ctx context.Context) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	deadline := time.Now().Add(s.lockTimeout)
	for {
		lock, ok, err := tryLock(s.lockPath)
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", s.lockPath, err)
		}
		if ok {
			return lock, nil
		}
		if !time.Now().Before(deadline) {
			return nil, &model.LockTimeoutError{Path: s.path, Timeout: s.lockTimeout}
		}

		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
