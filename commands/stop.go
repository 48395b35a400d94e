package commands

import (
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active session from any shell",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _ := newManager()
			res, err := mgr.Stop(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entry := res.Entry
			if res.Recovered {
				reportRecovered(out, &entry)
				return nil
			}
			util.LogInfo("Session stopped", util.F("project", entry.Project), util.F("duration", entry.Duration))
			successColor.Fprintf(out, "Stopped: %s, %s\n", entry.Project, duration.Format(entry.Duration))
			return nil
		},
	}
}

// noArgs rejects positional arguments with a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Message: "unexpected arguments for " + cmd.CommandPath()}
	}
	return nil
}
