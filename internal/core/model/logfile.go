package model

import (
	"encoding/json"
	"fmt"
)

// LogFile is the whole persisted document.
type LogFile struct {
	Version int
	Entries []TimeEntry // append order
	Active  *ActiveSession

	Extra map[string]json.RawMessage
}

// NewLogFile returns an empty log at the current format version.
func NewLogFile() *LogFile {
	return &LogFile{
		Version: LogFileVersion,
		Entries: make([]TimeEntry, 0),
	}
}

// Validate checks every entry and the active slot.
func (lf *LogFile) Validate() error {
	for i := range lf.Entries {
		if err := lf.Entries[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if lf.Active != nil {
		if lf.Active.Project == "" {
			return fmt.Errorf("active session: empty project")
		}
		if lf.Active.Start.IsZero() {
			return fmt.Errorf("active session: missing start")
		}
	}
	return nil
}

// Append adds an entry and clears the active slot if the entry closes it.
func (lf *LogFile) Append(entry TimeEntry) {
	lf.Entries = append(lf.Entries, entry)
	if lf.Active != nil && lf.Active.Matches(entry) {
		lf.Active = nil
	}
}
