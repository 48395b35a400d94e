package commands

import (
	"os/signal"
	"syscall"

	"github.com/penwyp/go-tt/internal/application/track"
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/core/session"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

var noClock bool

func newStartCmd() *cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start <project...>",
		Short: "Start tracking a project",
		Long: `Start tracking time for a project. Words after "start" form the project name.

By default the command stays in the foreground, shows a large clock and
keeps the session alive with heartbeats until you press q, Esc or Ctrl+C,
or the session is stopped from another shell. With --no-clock the session
is recorded and the command returns at once; stop it with 'tt time stop'.`,
		Example: `  tt time start acme website
  tt time start "client x" --no-clock`,
		RunE: runStart,
	}
	startCmd.Flags().BoolVar(&noClock, "no-clock", false,
		"Record the session and return without a foreground clock")
	return startCmd
}

func runStart(cmd *cobra.Command, args []string) error {
	project, err := projectArgs(args)
	if err != nil {
		return err
	}

	mgr, st := newManager()
	res, err := mgr.Start(cmd.Context(), project, session.StartOptions{Detached: noClock})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reportRecovered(out, res.Recovered)
	successColor.Fprintf(out, "Started tracking: %s\n", res.Session.Project)
	util.LogInfo("Session started",
		util.F("project", res.Session.Project),
		util.F("owner", res.Session.Owner.String()))

	if noClock {
		printf(out, "Running in the background. Stop with 'tt time stop'.\n")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	trackConfig := track.DefaultConfig()
	trackConfig.HeartbeatInterval = cfg.HeartbeatInterval
	trackConfig.Output = out
	tracker := track.NewTracker(mgr, res.Session, st.Path(), util.GetTimeProvider(), trackConfig)

	result, err := tracker.Run(ctx)
	if err != nil {
		return err
	}
	switch {
	case result.Entry != nil:
		successColor.Fprintf(out, "Stopped: %s, %s\n", result.Entry.Project, duration.Format(result.Entry.Duration))
	case result.Reason == track.ReasonEndedElsewhere:
		warnColor.Fprintf(out, "Session ended elsewhere.\n")
	}
	return nil
}
