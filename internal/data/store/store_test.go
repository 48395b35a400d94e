package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "timelog.json"), opts...)
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	lf, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, lf.Entries)
	assert.Nil(t, lf.Active)
	assert.Equal(t, model.LogFileVersion, lf.Version)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestSaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lf := model.NewLogFile()
	lf.Append(model.NewTrackedEntry("acme", base, base.Add(time.Hour)))
	lf.Append(model.NewManualEntry("beta", 30*time.Minute, base.Add(2*time.Hour)))
	lf.Active = &model.ActiveSession{
		Project:       "acme",
		Start:         base.Add(3 * time.Hour),
		LastHeartbeat: base.Add(3*time.Hour + 10*time.Second),
		Owner:         model.Owner{PID: 4242, Host: "box", StartedAt: base.Add(3 * time.Hour)},
	}
	require.NoError(t, s.Save(ctx, lf))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 2)
	for i := range lf.Entries {
		assert.Equal(t, lf.Entries[i].Project, loaded.Entries[i].Project)
		assert.True(t, lf.Entries[i].Start.Equal(loaded.Entries[i].Start))
		assert.True(t, lf.Entries[i].Stop.Equal(loaded.Entries[i].Stop))
		assert.Equal(t, lf.Entries[i].Duration, loaded.Entries[i].Duration)
		assert.Equal(t, lf.Entries[i].Source, loaded.Entries[i].Source)
	}
	require.NotNil(t, loaded.Active)
	assert.True(t, lf.Active.LastHeartbeat.Equal(loaded.Active.LastHeartbeat))
	assert.True(t, lf.Active.Owner.Same(loaded.Active.Owner))
}

func TestSaveLoadRoundTripIsByteIdentical(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	input := `{
  "version": 1,
  "entries": [
    {"project": "acme", "start": "2025-08-04T09:00:00+02:00", "stop": "2025-08-04T10:00:00+02:00", "duration_seconds": 3600, "source": "tracked", "invoice": {"id": "INV-7", "lines": [1, 2]}}
  ],
  "active": {"project": "beta", "start": "2025-08-04T11:00:00Z", "last_heartbeat": "2025-08-04T11:05:00Z", "owner": {"pid": 9, "host": "box", "started_at": "2025-08-04T11:00:00Z"}},
  "synced_at": "2025-08-04T12:00:00Z"
}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(input), 0600))

	first, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, first))
	written, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(written), "INV-7")
	assert.Contains(t, string(written), "synced_at")

	second, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, second))
	rewritten, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(written), string(rewritten))
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated json", content: `{"version":1,"entries":[{"project":"a"`},
		{name: "not json", content: "hello"},
		{name: "empty", content: ""},
		{name: "stop before start", content: `{"entries":[{"project":"a","start":"2025-08-04T10:00:00Z","stop":"2025-08-04T09:00:00Z","source":"tracked"}]}`},
		{name: "negative duration", content: `{"entries":[{"project":"a","start":"2025-08-04T09:00:00Z","stop":"2025-08-04T09:00:00Z","duration_seconds":-5,"source":"manual"}]}`},
		{name: "empty project", content: `{"entries":[{"project":"","start":"2025-08-04T09:00:00Z","stop":"2025-08-04T09:00:00Z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0600))

			_, err := s.Load()
			var corrupt *model.CorruptDataError
			require.True(t, errors.As(err, &corrupt), "got %v", err)
			assert.Equal(t, s.Path(), corrupt.Path)
		})
	}
}

func TestCorruptFileIsNeverOverwritten(t *testing.T) {
	s := newTestStore(t)
	content := []byte(`{"version":1,"entries":[`)
	require.NoError(t, os.WriteFile(s.Path(), content, 0600))

	called := false
	err := s.Update(context.Background(), func(lf *model.LogFile) error {
		called = true
		return nil
	})
	var corrupt *model.CorruptDataError
	require.True(t, errors.As(err, &corrupt))
	assert.False(t, called)

	err = s.AppendEntry(context.Background(), model.NewManualEntry("a", time.Hour, base))
	require.True(t, errors.As(err, &corrupt))

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, content, after)
}

func TestLoadLegacyArray(t *testing.T) {
	s := newTestStore(t)
	legacy := `[
  {"project": "acme", "start": "2025-08-01T09:00:00.123456", "end": "2025-08-01T10:30:00.654321", "duration_seconds": 5400, "duration": "01:30:00"},
  {"project": "beta", "start": "2025-08-01T11:00:00", "end": "2025-08-01T12:00:00", "duration_seconds": 3600, "duration": "01:00:00", "manual": true},
  {"project": "gamma", "start": "2025-08-02T08:00:00", "end": null}
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0600))

	lf, err := s.Load()
	require.NoError(t, err)
	require.Len(t, lf.Entries, 2)

	assert.Equal(t, "acme", lf.Entries[0].Project)
	assert.Equal(t, 90*time.Minute, lf.Entries[0].Duration)
	assert.Equal(t, model.SourceTracked, lf.Entries[0].Source)
	assert.True(t, time.Date(2025, 8, 1, 9, 0, 0, 0, time.Local).Equal(lf.Entries[0].Start))
	assert.Equal(t, model.SourceManual, lf.Entries[1].Source)

	require.NotNil(t, lf.Active)
	assert.Equal(t, "gamma", lf.Active.Project)
	assert.True(t, lf.Active.LastHeartbeat.IsZero())
	assert.False(t, lf.Active.Owner.Detached)
}

func TestLoadLegacyRejectsOpenEntryInMiddle(t *testing.T) {
	s := newTestStore(t)
	legacy := `[{"project":"a","start":"2025-08-01T09:00:00","end":null},{"project":"b","start":"2025-08-01T10:00:00","end":"2025-08-01T11:00:00"}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0600))

	_, err := s.Load()
	var corrupt *model.CorruptDataError
	assert.True(t, errors.As(err, &corrupt))
}

func TestAppendEntryClearsMatchingActiveSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session := &model.ActiveSession{Project: "acme", Start: base, LastHeartbeat: base}
	require.NoError(t, s.SetActiveSession(ctx, session))

	require.NoError(t, s.AppendEntry(ctx, model.NewManualEntry("other", time.Hour, base)))
	lf, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, lf.Active)

	require.NoError(t, s.AppendEntry(ctx, session.CloseAt(base.Add(time.Hour))))
	lf, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, lf.Active)
	assert.Len(t, lf.Entries, 2)
}

func TestAppendEntryRejectsInvalidEntry(t *testing.T) {
	s := newTestStore(t)
	err := s.AppendEntry(context.Background(), model.TimeEntry{Project: "", Start: base, Stop: base, Source: model.SourceManual})
	require.Error(t, err)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateCallbackErrorWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.AppendEntry(ctx, model.NewManualEntry("a", time.Hour, base)))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Update(ctx, func(lf *model.LogFile) error {
		lf.Append(model.NewManualEntry("b", time.Hour, base))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.Update(ctx, func(lf *model.LogFile) error {
		lf.Append(model.NewManualEntry("c", time.Hour, base))
		return ErrSkipSave
	})
	assert.NoError(t, err)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLockTimeout(t *testing.T) {
	s := newTestStore(t, WithLockTimeout(100*time.Millisecond), WithPollInterval(10*time.Millisecond))

	held, ok, err := tryLock(s.lockPath)
	require.NoError(t, err)
	require.True(t, ok)

	started := time.Now()
	err = s.AppendEntry(context.Background(), model.NewManualEntry("a", time.Hour, base))
	elapsed := time.Since(started)

	var timeout *model.LockTimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, 100*time.Millisecond, timeout.Timeout)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	require.NoError(t, held.unlock())
	require.NoError(t, s.AppendEntry(context.Background(), model.NewManualEntry("a", time.Hour, base)))
}

func TestLockRespectsContextCancellation(t *testing.T) {
	s := newTestStore(t, WithLockTimeout(10*time.Second))

	held, ok, err := tryLock(s.lockPath)
	require.NoError(t, err)
	require.True(t, ok)
	defer held.unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = s.SetActiveSession(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockReleasedOnCallbackError(t *testing.T) {
	s := newTestStore(t, WithLockTimeout(200*time.Millisecond))
	ctx := context.Background()

	err := s.Update(ctx, func(lf *model.LogFile) error {
		return errors.New("fail")
	})
	require.Error(t, err)

	// A leaked lock would make this time out
	require.NoError(t, s.AppendEntry(ctx, model.NewManualEntry("a", time.Hour, base)))
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timelog.json")
	ctx := context.Background()

	// Separate Store values stand in for separate processes: each acquires
	// the lock through its own file descriptor.
	const writers, perWriter = 4, 10
	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			s := New(path, WithLockTimeout(10*time.Second), WithPollInterval(time.Millisecond))
			for i := 0; i < perWriter; i++ {
				entry := model.NewManualEntry(fmt.Sprintf("p%d", w), time.Duration(i+1)*time.Minute, base)
				if err := s.AppendEntry(ctx, entry); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lf, err := New(path).Load()
	require.NoError(t, err)
	assert.Len(t, lf.Entries, writers*perWriter)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(context.Background(), model.NewLogFile()))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"timelog.json", "timelog.json.lock"}, names)
}
