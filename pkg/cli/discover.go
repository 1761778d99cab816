package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/logging"
)

var (
	discoverCatalog  string
	discoverMethod   string
	discoverData     string
	discoverDataFile string
	discoverVerbose  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run field discovery offline and print the attempts",
	Long: `Run the five-phase field discovery for one catalog and method without
starting a server, then print every simulated attempt and the discovered
undocumented fields.

Values for probed fields come from --data, falling back to the catalog's
sample values.

Examples:
  perfstub discover
  perfstub discover --catalog medstore --method put
  perfstub discover --data '{"name":"Rice","category":"Grain"}' --json`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverCatalog, "catalog", "foodstore", "Catalog name")
	discoverCmd.Flags().StringVarP(&discoverMethod, "method", "m", "post", "Method to probe (post or put)")
	discoverCmd.Flags().StringVarP(&discoverData, "data", "d", "", "Request body as JSON")
	discoverCmd.Flags().StringVar(&discoverDataFile, "data-file", "", "Request body file (JSON or YAML)")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "Log each attempt to stderr")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	m, err := discovery.ParseMethod(discoverMethod)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cc, err := findCatalog(cfg, discoverCatalog)
	if err != nil {
		return err
	}
	body, err := parseBody(discoverData, discoverDataFile)
	if err != nil {
		return err
	}

	log := logging.Nop()
	if discoverVerbose {
		log = logging.New(logging.Config{Level: logging.LevelDebug, Output: cmd.ErrOrStderr()})
	}
	engine, err := newEngine(cc, discovery.WithLogger(log))
	if err != nil {
		return err
	}
	res, err := engine.Discover(m, body)
	if err != nil {
		return err
	}
	report := res.Snapshot()

	out := cmd.OutOrStdout()
	return printResult(out, report, func() {
		rows := make([][]string, len(report.TestSequence))
		for i, a := range report.TestSequence {
			result := output.Pass("PASS")
			if !a.BackendResult.Success {
				result = output.Fail("FAIL")
			}
			rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(a.Phase), a.Description, result}
		}
		fmt.Fprintf(out, "Field discovery for %s %s\n", output.Info(cc.Name), m)
		_ = output.Table(out, []string{"#", "Phase", "Description", "Result"}, rows)
		fmt.Fprintf(out, "Undocumented required: %s\n", listOrNone(report.DiscoveredUndocumentedRequired))
		fmt.Fprintf(out, "Undocumented optional: %s\n", listOrNone(report.DiscoveredUndocumentedOptional))
	})
}

func listOrNone(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	return strings.Join(fields, ", ")
}
