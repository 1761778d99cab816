package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/openapi"
	"github.com/getmockd/perfstub/pkg/routes"
)

var openapiFormat string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the published OpenAPI document",
	Long: `Print the OpenAPI document the server publishes for the configuration.

The document lists only documented fields, never the undocumented ones the
simulated backend requires.

Examples:
  perfstub openapi > openapi.yaml
  perfstub openapi --format json`,
	Args: cobra.NoArgs,
	RunE: runOpenAPI,
}

func init() {
	openapiCmd.Flags().StringVarP(&openapiFormat, "format", "f", "yaml", "Output format: yaml or json")
	rootCmd.AddCommand(openapiCmd)
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	rt, err := routes.New(cfg)
	if err != nil {
		return err
	}
	doc := rt.OpenAPI()

	out := cmd.OutOrStdout()
	switch strings.ToLower(openapiFormat) {
	case "json":
		return output.JSON(out, doc)
	case "yaml", "yml":
		data, err := openapi.ToYAML(doc)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q: use yaml or json", openapiFormat)
	}
}
