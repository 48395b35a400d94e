package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "acme", want: "acme"},
		{name: "trimmed", input: "  acme  ", want: "acme"},
		{name: "inner whitespace collapsed", input: "client\t  website\nredesign", want: "client website redesign"},
		{name: "case preserved", input: "ACME Corp", want: "ACME Corp"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: " \t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeProject(tt.input)
			if tt.wantErr {
				var invalid *InvalidProjectError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.input, invalid.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTrackedEntry(t *testing.T) {
	start := time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

	entry := NewTrackedEntry("acme", start, start.Add(90*time.Minute))
	assert.Equal(t, 90*time.Minute, entry.Duration)
	assert.Equal(t, SourceTracked, entry.Source)
	require.NoError(t, entry.Validate())

	// A stop before start is clamped rather than producing a negative duration
	clamped := NewTrackedEntry("acme", start, start.Add(-time.Minute))
	assert.Equal(t, start, clamped.Stop)
	assert.Zero(t, clamped.Duration)
}

func TestNewManualEntry(t *testing.T) {
	stop := time.Date(2025, 8, 4, 17, 0, 0, 0, time.UTC)

	entry := NewManualEntry("acme", 210*time.Minute, stop)
	assert.Equal(t, SourceManual, entry.Source)
	assert.Equal(t, stop, entry.Stop)
	assert.Equal(t, entry.Duration, entry.Stop.Sub(entry.Start))
	require.NoError(t, entry.Validate())
}

func TestTimeEntryValidate(t *testing.T) {
	start := time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry TimeEntry
		want  string
	}{
		{
			name:  "empty project",
			entry: TimeEntry{Start: start, Stop: start, Source: SourceTracked},
			want:  "empty project",
		},
		{
			name:  "stop before start",
			entry: TimeEntry{Project: "a", Start: start, Stop: start.Add(-time.Second), Source: SourceTracked},
			want:  "before start",
		},
		{
			name:  "negative duration",
			entry: TimeEntry{Project: "a", Start: start, Stop: start, Duration: -time.Second, Source: SourceManual},
			want:  "negative duration",
		},
		{
			name:  "unknown source",
			entry: TimeEntry{Project: "a", Start: start, Stop: start, Source: "imported"},
			want:  "unknown source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogFileAppendClearsMatchingSession(t *testing.T) {
	start := time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)
	lf := NewLogFile()
	lf.Active = &ActiveSession{Project: "acme", Start: start}

	// An unrelated entry leaves the slot alone
	lf.Append(NewManualEntry("other", time.Hour, start))
	require.NotNil(t, lf.Active)

	lf.Append(lf.Active.CloseAt(start.Add(time.Hour)))
	assert.Nil(t, lf.Active)
	assert.Len(t, lf.Entries, 2)
}

func TestOwnerSame(t *testing.T) {
	at := time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)
	a := Owner{PID: 42, Host: "box", StartedAt: at}

	assert.True(t, a.Same(Owner{PID: 42, Host: "box", StartedAt: at.In(time.FixedZone("X", 3600))}))
	assert.False(t, a.Same(Owner{PID: 43, Host: "box", StartedAt: at}))
	assert.False(t, a.Same(Owner{PID: 42, Host: "other", StartedAt: at}))
	assert.False(t, a.Same(Owner{PID: 42, Host: "box", StartedAt: at.Add(time.Second)}))
}
