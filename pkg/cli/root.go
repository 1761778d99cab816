package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	jsonOutput bool
	noColor    bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "perfstub",
	Short: "perfstub serves mock REST APIs whose backend silently requires undocumented fields",
	Long: `perfstub is a test target for API testing tools.

Its discovery-enabled catalogs publish an OpenAPI document that omits some
fields the simulated backend actually requires, and record how a five-phase
probing run uncovers them. Fixture endpoints cover sorting quirks, auth,
uploads and load generation.

Configuration is read from a YAML or JSON file given with --config. Without
one, the built-in foodstore and medstore catalogs are served.`,
	SilenceUsage:  true,
	SilenceErrors: true, // Main prints errors
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("PERFSTUB_CONFIG"), "Config file path (default: $PERFSTUB_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// Execute runs the CLI and exits the process.
func Execute() {
	os.Exit(Main())
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
