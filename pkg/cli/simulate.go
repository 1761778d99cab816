package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
)

var (
	simulateCatalog  string
	simulateMethod   string
	simulateData     string
	simulateDataFile string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Check a request body against the simulated backend",
	Long: `Check a request body against the simulated backend of a catalog.

The command exits non-zero when the backend rejects the body.

Examples:
  perfstub simulate --data '{"name":"Rice","category":"Grain"}'
  perfstub simulate --catalog medstore --method put --data-file body.yaml`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCatalog, "catalog", "foodstore", "Catalog name")
	simulateCmd.Flags().StringVarP(&simulateMethod, "method", "m", "post", "Method (post or put)")
	simulateCmd.Flags().StringVarP(&simulateData, "data", "d", "", "Request body as JSON")
	simulateCmd.Flags().StringVar(&simulateDataFile, "data-file", "", "Request body file (JSON or YAML)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	m, err := discovery.ParseMethod(simulateMethod)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cc, err := findCatalog(cfg, simulateCatalog)
	if err != nil {
		return err
	}
	body, err := parseBody(simulateData, simulateDataFile)
	if err != nil {
		return err
	}
	engine, err := newEngine(cc)
	if err != nil {
		return err
	}

	result := engine.Simulator().Validate(m, body)
	out := cmd.OutOrStdout()
	if err := printResult(out, result, func() {
		if result.Success {
			fmt.Fprintf(out, "%s %s\n", output.Pass("ACCEPTED"), result.Message)
			return
		}
		fmt.Fprintf(out, "%s %s: %s\n", output.Fail("REJECTED"), result.Error, result.Message)
		fmt.Fprintf(out, "Missing: %s\n", strings.Join(result.MissingFields, ", "))
	}); err != nil {
		return err
	}
	if !result.Success {
		return ErrBackendRejected
	}
	return nil
}
