package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-tt/internal/core/model"
)

func encode(lf *model.LogFile) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(lf, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(data []byte) (*model.LogFile, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	var lf *model.LogFile
	switch trimmed[0] {
	case '{':
		lf = &model.LogFile{}
		if err := sonic.ConfigStd.Unmarshal(trimmed, lf); err != nil {
			return nil, err
		}
		if lf.Version == 0 {
			lf.Version = model.LogFileVersion
		}
	case '[':
		var err error
		if lf, err = decodeLegacy(trimmed); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected a JSON object or array")
	}

	if err := lf.Validate(); err != nil {
		return nil, err
	}
	return lf, nil
}

// legacyEntry is one element of the bare-array format written by the first
// version of the tool, where an open session is the last entry with a null end.
type legacyEntry struct {
	Project         string  `json:"project"`
	Start           string  `json:"start"`
	End             *string `json:"end"`
	DurationSeconds *int64  `json:"duration_seconds"`
	Manual          bool    `json:"manual"`
}

var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func decodeLegacy(data []byte) (*model.LogFile, error) {
	var raw []legacyEntry
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	lf := model.NewLogFile()
	for i, e := range raw {
		start, err := parseLegacyTime(e.Start)
		if err != nil {
			return nil, fmt.Errorf("entry %d: start: %w", i, err)
		}

		if e.End == nil {
			if i != len(raw)-1 {
				return nil, fmt.Errorf("entry %d: open entry is not the last one", i)
			}
			// No liveness evidence was ever recorded for these.
			lf.Active = &model.ActiveSession{Project: e.Project, Start: start}
			continue
		}

		stop, err := parseLegacyTime(*e.End)
		if err != nil {
			return nil, fmt.Errorf("entry %d: end: %w", i, err)
		}

		entry := model.TimeEntry{
			Project:  e.Project,
			Start:    start,
			Stop:     stop,
			Duration: stop.Sub(start),
			Source:   model.SourceTracked,
		}
		if e.DurationSeconds != nil {
			entry.Duration = time.Duration(*e.DurationSeconds) * time.Second
		}
		if e.Manual {
			entry.Source = model.SourceManual
		}
		lf.Entries = append(lf.Entries, entry)
	}
	return lf, nil
}

// parseLegacyTime accepts offset timestamps and naive ones, which are taken
// as local time.
func parseLegacyTime(s string) (time.Time, error) {
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
