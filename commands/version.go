package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set by the release build via -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	shortened     bool
	versionOutput string
)

func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tt version",
		Example: `
tt version
tt version -s`,
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, versionOutput)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}
	versionCmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")
	return versionCmd
}
