package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
)

type timeEntryJSON struct {
	Project         string    `json:"project"`
	Start           time.Time `json:"start"`
	Stop            time.Time `json:"stop"`
	DurationSeconds *int64    `json:"duration_seconds,omitempty"`
	Source          Source    `json:"source"`
	Recovered       bool      `json:"recovered,omitempty"`
}

var timeEntryKeys = []string{"project", "start", "stop", "duration_seconds", "source", "recovered"}

type activeSessionJSON struct {
	Project       string     `json:"project"`
	Start         time.Time  `json:"start"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	Owner         Owner      `json:"owner"`
}

var activeSessionKeys = []string{"project", "start", "last_heartbeat", "owner"}

type logFileJSON struct {
	Version int            `json:"version"`
	Entries []TimeEntry    `json:"entries"`
	Active  *ActiveSession `json:"active,omitempty"`
}

var logFileKeys = []string{"version", "entries", "active"}

func (e TimeEntry) MarshalJSON() ([]byte, error) {
	secs := int64(e.Duration / time.Second)
	return marshalWithExtra(timeEntryJSON{
		Project:         e.Project,
		Start:           e.Start,
		Stop:            e.Stop,
		DurationSeconds: &secs,
		Source:          e.Source,
		Recovered:       e.Recovered,
	}, e.Extra)
}

func (e *TimeEntry) UnmarshalJSON(data []byte) error {
	var raw timeEntryJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := collectExtra(data, timeEntryKeys)
	if err != nil {
		return err
	}

	*e = TimeEntry{
		Project:   raw.Project,
		Start:     raw.Start,
		Stop:      raw.Stop,
		Duration:  raw.Stop.Sub(raw.Start),
		Source:    raw.Source,
		Recovered: raw.Recovered,
		Extra:     extra,
	}
	if raw.DurationSeconds != nil {
		e.Duration = time.Duration(*raw.DurationSeconds) * time.Second
	}
	if e.Source == "" {
		e.Source = SourceTracked
	}
	return nil
}

func (s ActiveSession) MarshalJSON() ([]byte, error) {
	raw := activeSessionJSON{
		Project: s.Project,
		Start:   s.Start,
		Owner:   s.Owner,
	}
	if !s.LastHeartbeat.IsZero() {
		hb := s.LastHeartbeat
		raw.LastHeartbeat = &hb
	}
	return marshalWithExtra(raw, s.Extra)
}

func (s *ActiveSession) UnmarshalJSON(data []byte) error {
	var raw activeSessionJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := collectExtra(data, activeSessionKeys)
	if err != nil {
		return err
	}

	*s = ActiveSession{
		Project: raw.Project,
		Start:   raw.Start,
		Owner:   raw.Owner,
		Extra:   extra,
	}
	if raw.LastHeartbeat != nil {
		s.LastHeartbeat = *raw.LastHeartbeat
	}
	return nil
}

func (lf LogFile) MarshalJSON() ([]byte, error) {
	entries := lf.Entries
	if entries == nil {
		entries = []TimeEntry{}
	}
	return marshalWithExtra(logFileJSON{
		Version: lf.Version,
		Entries: entries,
		Active:  lf.Active,
	}, lf.Extra)
}

func (lf *LogFile) UnmarshalJSON(data []byte) error {
	var raw logFileJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := collectExtra(data, logFileKeys)
	if err != nil {
		return err
	}

	*lf = LogFile{
		Version: raw.Version,
		Entries: raw.Entries,
		Active:  raw.Active,
		Extra:   extra,
	}
	if lf.Entries == nil {
		lf.Entries = make([]TimeEntry, 0)
	}
	return nil
}

// collectExtra returns the members of a JSON object not named in known,
// compacted so that re-encoding is stable.
func collectExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}

	extra := make(map[string]json.RawMessage, len(all))
	for k, v := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		extra[k] = buf.Bytes()
	}
	return extra, nil
}

// marshalWithExtra encodes v and splices the extra members in after the
// known ones, in key order.
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, err := sonic.Marshal(k)
		if err != nil {
			return nil, err
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
