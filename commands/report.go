package commands

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/data/aggregator"
	"github.com/penwyp/go-tt/internal/presentation/formatter"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

var (
	reportPeriod   string
	reportAt       string
	reportOutput   string
	reportDetail   bool
	reportDaily    bool
	reportNoExport bool
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tracked time per project",
		Long: `Summarize completed entries per project for a calendar period and
export the result as a CSV time sheet into the report directory.

The session currently being tracked is not included until it is stopped.`,
		Example: `  tt time report
  tt time report --period week --detail
  tt time report --period month --at 2025-07-01 --no-export
  tt time report --period all --output json`,
		Args: noArgs,
		RunE: runReport,
	}
	reportCmd.Flags().StringVarP(&reportPeriod, "period", "p", string(aggregator.PeriodMonth),
		"Period to report: month, week, day or all")
	reportCmd.Flags().StringVar(&reportAt, "at", "",
		"Any date inside the period, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", formatter.OutputTable,
		"Output format: "+strings.Join(formatter.Outputs, ", "))
	reportCmd.Flags().BoolVar(&reportDetail, "detail", false, "List individual entries")
	reportCmd.Flags().BoolVar(&reportDaily, "daily", false, "Add a per-day breakdown grouped by week")
	reportCmd.Flags().BoolVar(&reportNoExport, "no-export", false, "Do not write the CSV time sheet")
	return reportCmd
}

func runReport(cmd *cobra.Command, args []string) error {
	reportOutput = strings.ToLower(strings.TrimSpace(reportOutput))
	kind, err := aggregator.ParsePeriodKind(reportPeriod)
	if err != nil {
		return &UsageError{Message: err.Error()}
	}

	tp := util.GetTimeProvider()
	at := tp.Now()
	if reportAt != "" {
		at, err = time.ParseInLocation("2006-01-02", reportAt, tp.Location())
		if err != nil {
			return &UsageError{Message: fmt.Sprintf("invalid --at %q, want YYYY-MM-DD", reportAt)}
		}
	}

	agg := aggregator.NewAggregatorWithTimezone(tp.Location())
	period, err := agg.Period(kind, at)
	if err != nil {
		return &UsageError{Message: err.Error()}
	}

	opts := formatter.Options{Detail: reportDetail, Location: tp.Location()}
	f, err := formatter.New(reportOutput, opts)
	if err != nil {
		return &UsageError{Message: err.Error()}
	}

	mgr, _ := newManager()
	entries, recovered, err := mgr.Entries(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// machine-readable output keeps stdout clean
	notes := out
	if reportOutput == formatter.OutputJSON || reportOutput == formatter.OutputCSV {
		notes = cmd.ErrOrStderr()
	}
	reportRecovered(notes, recovered)

	report := agg.Build(entries, period)
	if reportDaily {
		opts.Daily = agg.Daily(entries, period)
		if f, err = formatter.New(reportOutput, opts); err != nil {
			return err
		}
	}
	util.LogDebugf("Report %s: %d entries, %d projects", period.Label(), len(entries), len(report.Projects))

	if err := f.Format(out, report); err != nil {
		return err
	}

	if reportNoExport || report.Empty() {
		return nil
	}
	path, err := formatter.ExportCSV(cfg.ReportDir, report, tp.Location())
	if err != nil {
		return err
	}
	util.LogInfo("Report exported", util.F("path", path))
	printExportPath(notes, path)
	return nil
}

func printExportPath(w io.Writer, path string) {
	link := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	fmt.Fprintf(w, "\nExported report to: %s\n", util.Hyperlink(path, link))
}
