package track

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/core/session"
	"github.com/penwyp/go-tt/internal/data/store"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now advances one second per call so heartbeats are observable
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type harness struct {
	path  string
	store *store.Store
	clock *stepClock
	probe *session.SystemProbe
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timelog.json")
	return &harness{
		path:  path,
		store: store.New(path),
		clock: &stepClock{now: t0},
		probe: session.NewSystemProbe(),
	}
}

// manager acts as a separate invocation. All of them share this test's pid
// so the real probe sees them alive; StartedAt tells them apart.
func (h *harness) manager(invocation int) *session.Manager {
	owner := model.Owner{
		PID:       os.Getpid(),
		Host:      h.probe.Host(),
		StartedAt: t0.Add(time.Duration(invocation) * time.Hour),
	}
	return session.NewManager(h.store, h.clock, h.probe, owner, session.DefaultConfig)
}

func testConfig() Config {
	return Config{
		HeartbeatInterval: 10 * time.Millisecond,
		ShowClock:         false,
		Keyboard:          false,
		Output:            &bytes.Buffer{},
	}
}

func runAsync(t *testing.T, tr *Tracker, ctx context.Context) <-chan *Result {
	t.Helper()
	done := make(chan *Result, 1)
	go func() {
		res, err := tr.Run(ctx)
		assert.NoError(t, err)
		done <- res
	}()
	return done
}

func waitResult(t *testing.T, done <-chan *Result) *Result {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("tracker did not return")
		return nil
	}
}

func TestTrackerStopsOwnSessionOnCancel(t *testing.T) {
	h := newHarness(t)
	mgr := h.manager(1)

	started, err := mgr.Start(context.Background(), "acme", session.StartOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(t, NewTracker(mgr, started.Session, h.path, h.clock, testConfig()), ctx)

	require.Eventually(t, func() bool {
		lf, err := h.store.Load()
		return err == nil && lf.Active != nil && lf.Active.LastHeartbeat.After(started.Session.Start)
	}, 5*time.Second, 10*time.Millisecond, "heartbeat never written")

	cancel()
	res := waitResult(t, done)
	assert.Equal(t, ReasonInterrupted, res.Reason)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "acme", res.Entry.Project)

	lf, err := h.store.Load()
	require.NoError(t, err)
	assert.Nil(t, lf.Active)
	assert.Len(t, lf.Entries, 1)
}

func TestTrackerEndsWhenStoppedElsewhere(t *testing.T) {
	tests := []struct {
		name  string
		watch bool // without the watcher only a heartbeat can notice
	}{
		{name: "watcher", watch: true},
		{name: "heartbeat_only", watch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			mgr := h.manager(1)
			started, err := mgr.Start(context.Background(), "acme", session.StartOptions{})
			require.NoError(t, err)

			path := ""
			cfg := testConfig()
			if tt.watch {
				path = h.path
				cfg.HeartbeatInterval = time.Hour
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := runAsync(t, NewTracker(mgr, started.Session, path, h.clock, cfg), ctx)

			// Give the watcher a moment to register before the change lands.
			time.Sleep(50 * time.Millisecond)
			_, err = h.manager(2).Stop(context.Background())
			require.NoError(t, err)

			res := waitResult(t, done)
			assert.Equal(t, ReasonEndedElsewhere, res.Reason)
			assert.Nil(t, res.Entry)

			lf, err := h.store.Load()
			require.NoError(t, err)
			assert.Len(t, lf.Entries, 1, "the stop from the other process is the only entry")
		})
	}
}

func TestTrackerIgnoresUnrelatedWrites(t *testing.T) {
	h := newHarness(t)
	mgr := h.manager(1)
	started, err := mgr.Start(context.Background(), "acme", session.StartOptions{})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.HeartbeatInterval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(t, NewTracker(mgr, started.Session, h.path, h.clock, cfg), ctx)

	time.Sleep(50 * time.Millisecond)
	_, err = h.manager(2).LogManual(context.Background(), "beta", "15m")
	require.NoError(t, err)

	select {
	case <-done:
		t.Fatal("a manual log must not end tracking")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	res := waitResult(t, done)
	assert.Equal(t, ReasonInterrupted, res.Reason)
}

func TestDisplayFrame(t *testing.T) {
	d := NewDisplay(&bytes.Buffer{}, func() int { return 80 }, "acme", t0)
	frame := d.Frame(t0.Add(5*time.Minute + 7*time.Second))
	plain := util.StripANSI(frame)

	assert.Contains(t, plain, "tracking: acme")
	assert.Contains(t, plain, "elapsed 0:05:07")
	assert.Contains(t, plain, "started 2025-08-04 09:00:00")
	for _, line := range strings.Split(strings.TrimRight(plain, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, util.GetDisplayWidth(line), 80)
	}
}

func TestDisplayRenderAndClose(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf, func() int { return 60 }, "acme", t0)

	d.Close()
	assert.Empty(t, buf.String(), "nothing drawn, nothing to restore")

	d.Render(t0)
	assert.True(t, strings.HasPrefix(buf.String(), util.HideCursor))
	d.Close()
	assert.True(t, strings.HasSuffix(buf.String(), util.ShowCursor))
}

func TestBigDigits(t *testing.T) {
	rows := BigDigits("12:34:56")
	require.Len(t, rows, glyphHeight)
	for _, row := range rows {
		// eight glyphs of five columns with two-column gaps
		assert.Equal(t, 8*5+7*2, util.GetDisplayWidth(row))
	}
	assert.Equal(t, BigDigits("0")[0], " ░░░ ")
}

func TestIsStopKey(t *testing.T) {
	for _, key := range []rune{'q', 'Q', keyCtrlC, keyEscape} {
		assert.True(t, isStopKey(key), "key %d", key)
	}
	assert.False(t, isStopKey('x'))
}
