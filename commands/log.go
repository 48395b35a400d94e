package commands

import (
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <project...> <duration>",
		Short: "Record time after the fact",
		Long: `Record a manual entry ending now. The last argument is the duration:

  1h30m  2h  45m    compound
  1:30              hours:minutes
  90                minutes
  1.5               decimal hours`,
		Example: `  tt time log acme 1h30m
  tt time log client x 1:15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return &UsageError{Message: "requires a project name and a duration"}
			}
			project, err := projectArgs(args[:len(args)-1])
			if err != nil {
				return err
			}

			mgr, _ := newManager()
			res, err := mgr.LogManual(cmd.Context(), project, args[len(args)-1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reportRecovered(out, res.Recovered)
			util.LogInfo("Manual entry logged", util.F("project", res.Entry.Project), util.F("duration", res.Entry.Duration))
			successColor.Fprintf(out, "Logged %s to %s\n", duration.Format(res.Entry.Duration), res.Entry.Project)
			return nil
		},
	}
}
