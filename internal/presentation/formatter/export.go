package formatter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/penwyp/go-tt/internal/data/aggregator"
	"github.com/penwyp/go-tt/internal/util"
)

// ExportPath is the deterministic CSV location for a period, so
// regenerating a report overwrites the previous export.
func ExportPath(dir string, p aggregator.Period) string {
	name := fmt.Sprintf("Time Sheet - %s.csv", p.Label())
	return filepath.Join(dir, p.Slug(), name)
}

// ExportCSV writes the report's CSV under dir and returns the file path
func ExportCSV(dir string, r *aggregator.Report, loc *time.Location) (string, error) {
	var buf bytes.Buffer
	if err := ToCSV(&buf, r, loc); err != nil {
		return "", fmt.Errorf("failed to render CSV: %w", err)
	}

	path := ExportPath(dir, r.Period)
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
