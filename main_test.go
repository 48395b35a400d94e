package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/penwyp/go-tt/commands"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("TT_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("TT_LOG_FILE", filepath.Join(dir, "logs", "app.log"))
	t.Setenv("TT_REPORT_DIR", filepath.Join(dir, "reports"))
	t.Setenv("TT_TIMEZONE", "UTC")
	t.Setenv("TT_LOG_FORMAT", "text")
	dataFile := filepath.Join(dir, "timelog.json")

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{name: "version", args: []string{"version", "--short"}, code: commands.ExitOK, stdout: "dev"},
		{name: "stop_without_session", args: []string{"time", "stop"}, code: commands.ExitNoSession, stderr: "Error: No active timer."},
		{name: "log", args: []string{"time", "log", "acme", "45m"}, code: commands.ExitOK, stdout: "Logged 45m to acme"},
		{name: "unknown_flag", args: []string{"time", "status", "--bogus"}, code: commands.ExitUsage, stderr: "Error:"},
		{name: "bad_duration", args: []string{"time", "log", "acme", "soon"}, code: commands.ExitParse, stderr: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), append(tt.args, "--file", dataFile), &stdout, &stderr)
			assert.Equal(t, tt.code, code, stderr.String())
			assert.Contains(t, stdout.String(), tt.stdout)
			assert.Contains(t, stderr.String(), tt.stderr)
		})
	}
}
