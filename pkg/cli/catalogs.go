package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "List the discovery-enabled catalogs",
	Long: `List the discovery-enabled catalogs of the configuration.

Examples:
  perfstub catalogs
  perfstub catalogs --config perfstub.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runCatalogs,
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
}

type catalogSummary struct {
	Name           string   `json:"name"`
	BasePath       string   `json:"basePath"`
	Features       []string `json:"features"`
	ActualRequired []string `json:"postActualRequired"`
}

func runCatalogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	summaries := make([]catalogSummary, len(cfg.Catalogs))
	rows := make([][]string, len(cfg.Catalogs))
	for i, cc := range cfg.Catalogs {
		post := cc.Fields[discovery.MethodPOST.Key()]
		summaries[i] = catalogSummary{
			Name:           cc.Name,
			BasePath:       cc.BasePath,
			Features:       append([]string{}, cc.Features...),
			ActualRequired: post.ActualRequired,
		}
		rows[i] = []string{cc.Name, cc.BasePath, strings.Join(cc.Features, ","), strings.Join(post.ActualRequired, ",")}
	}

	out := cmd.OutOrStdout()
	return printResult(out, summaries, func() {
		_ = output.Table(out, []string{"Name", "Base Path", "Features", "POST Actual Required"}, rows)
	})
}

// findCatalog returns the catalog named name.
func findCatalog(cfg *config.Config, name string) (config.CatalogConfig, error) {
	names := make([]string, len(cfg.Catalogs))
	for i, cc := range cfg.Catalogs {
		if cc.Name == name {
			return cc, nil
		}
		names[i] = cc.Name
	}
	return config.CatalogConfig{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownCatalog, name, strings.Join(names, ", "))
}

// newEngine builds a standalone discovery engine for cc.
func newEngine(cc config.CatalogConfig, opts ...discovery.Option) (*discovery.Engine, error) {
	profile, err := cc.Profile()
	if err != nil {
		return nil, err
	}
	configs, err := discovery.NewConfigStore(profile.Configs)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cc.Name, err)
	}
	return discovery.NewEngine(configs, discovery.NewResultStore(), profile.Samples, opts...), nil
}

// parseBody reads a request body from an inline JSON string or a JSON or
// YAML file. Both empty yields an empty body.
func parseBody(inline, file string) (map[string]any, error) {
	body := map[string]any{}
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("--data and --data-file are mutually exclusive")
	case inline != "":
		if err := json.Unmarshal([]byte(inline), &body); err != nil {
			return nil, fmt.Errorf("parse --data: %w", err)
		}
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read --data-file: %w", err)
		}
		if config.IsYAMLPath(file) {
			err = yaml.Unmarshal(data, &body)
		} else {
			err = json.Unmarshal(data, &body)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}
