package model

// Entry sources
const (
	SourceTracked Source = "tracked"
	SourceManual  Source = "manual"
)

// LogFileVersion is the current on-disk format version
const LogFileVersion = 1

// Source tags how a TimeEntry was produced
type Source string

// Valid reports whether s is a known source tag
func (s Source) Valid() bool {
	return s == SourceTracked || s == SourceManual
}
