package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"version":   Version,
			"commit":    Commit,
			"buildDate": BuildDate,
			"go":        runtime.Version(),
			"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		}
		out := cmd.OutOrStdout()
		return printResult(out, info, func() {
			fmt.Fprintf(out, "perfstub %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			fmt.Fprintf(out, "%s %s\n", info["go"], info["platform"])
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
