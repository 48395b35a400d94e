package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/core/model"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

func newTimeCmd() *cobra.Command {
	timeCmd := &cobra.Command{
		Use:   "time",
		Short: "Track, log and report working time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	timeCmd.AddCommand(
		newStartCmd(),
		newStopCmd(),
		newLogCmd(),
		newReportCmd(),
		newStatusCmd(),
	)
	return timeCmd
}

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	faintColor   = color.New(color.Faint)
)

// reportRecovered tells the user a dead session was closed on their behalf
func reportRecovered(w io.Writer, entry *model.TimeEntry) {
	if entry == nil {
		return
	}
	util.LogWarn("Recovered stale session",
		util.F("project", entry.Project),
		util.F("start", entry.Start),
		util.F("stop", entry.Stop))
	warnColor.Fprintf(w, "Recovered an abandoned session: %s, %s (closed at its last heartbeat %s)\n",
		entry.Project, duration.Format(entry.Duration), util.GetTimeProvider().Format(entry.Stop, "2006-01-02 15:04"))
}

// projectArgs joins all positional arguments into one project name
func projectArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "", &UsageError{Message: "requires a project name"}
	}
	return strings.Join(args, " "), nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
