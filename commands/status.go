package commands

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/penwyp/go-tt/internal/core/duration"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is being tracked",
		Args:  noArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, _ := newManager()
	st, err := mgr.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reportRecovered(out, st.Recovered)
	if st.Active == nil {
		faintColor.Fprintln(out, "No active timer.")
		return nil
	}

	tp := util.GetTimeProvider()
	mode := "foreground"
	if st.Active.Owner.Detached {
		mode = "background"
	}
	heartbeat := "never"
	if !st.Active.LastHeartbeat.IsZero() {
		heartbeat = tp.Format(st.Active.LastHeartbeat, "15:04:05")
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Project:", st.Active.Project)
	tbl.AddRow("Started:", tp.Format(st.Active.Start, "2006-01-02 15:04:05"))
	tbl.AddRow("Elapsed:", duration.Clock(st.Elapsed))
	tbl.AddRow("Mode:", mode)
	tbl.AddRow("Owner:", st.Active.Owner.String())
	tbl.AddRow("Heartbeat:", heartbeat)
	fmt.Fprintln(out, tbl)
	return nil
}
