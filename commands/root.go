package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/config"
	"github.com/penwyp/go-tt/internal/core/session"
	"github.com/penwyp/go-tt/internal/data/store"
	"github.com/penwyp/go-tt/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	debug    bool
	dataFile string
	timezone string

	// Resolved by setup before any subcommand runs
	cfg *config.Config
)

const rootLong = `tt records billable work sessions per project in a single JSON file and
produces per-project reports and CSV time sheets for invoicing.

A session left open by a closed terminal or killed shell is closed
automatically at its last heartbeat the next time tt runs.

Examples:
  tt time start acme website        # start tracking and show the clock
  tt time start acme --no-clock     # start tracking in the background
  tt time stop                      # stop from any shell
  tt time log acme 1h30m            # record time after the fact
  tt time report --period week      # this week's report and CSV export
  tt time status                    # what is being tracked right now`

// newRootCmd builds the full command tree. Each invocation gets a fresh
// tree so flag state and contexts never leak between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tt",
		Short:             "Crash-resilient personal time tracker",
		Long:              rootLong,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "",
		"Data file path (default ~/.timelog.json, env TT_TIME_FILE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone for timestamps and reports (e.g., Local, UTC, Europe/Berlin)")

	rootCmd.AddCommand(newTimeCmd(), newVersionCmd())
	return rootCmd
}

// setup resolves configuration, then starts logging and the time provider
func setup(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		config.KeyDataFile: "file",
		config.KeyDebug:    "debug",
		config.KeyTimezone: "timezone",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}

	resolved, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = resolved

	logLevel := "info"
	if cfg.Debug {
		logLevel = "debug"
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   logLevel,
		File:    cfg.LogFile,
		Console: cfg.Debug,
		Format:  util.LogFormat(cfg.LogFormat),
	}); err != nil {
		// Tracking must not fail because the log directory is unwritable.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	util.LogDebugf("Command %q with data file %s", cmd.CommandPath(), cfg.DataFile)
	if cfg.ConfigFile != "" {
		util.LogDebugf("Loaded config from %s", cfg.ConfigFile)
	}
	return nil
}

// Execute runs tt with args, writing command output to stdout and stderr.
// Failures are logged before the logger is closed.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		util.LogError("Command failed", util.F("args", strings.Join(args, " ")), util.F("error", err.Error()))
	}
	util.CloseLogger()
	return err
}

// processStart identifies this invocation in session ownership
var processStart = time.Now()

// newManager wires the store and session manager from the resolved config
func newManager() (*session.Manager, *store.Store) {
	s := store.New(cfg.DataFile, store.WithLockTimeout(cfg.LockTimeout))
	probe := session.NewSystemProbe()
	clock := util.GetTimeProvider()
	owner := session.CurrentOwner(probe, processStart)
	m := session.NewManager(s, clock, probe, owner, session.Config{StaleTolerance: cfg.StaleTolerance})
	return m, s
}
