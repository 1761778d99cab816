package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/cli/internal/output"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/routes"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

The file argument defaults to --config. Catalog base paths are also checked
against the fixed routes.

Examples:
  perfstub validate perfstub.yaml
  perfstub validate --config perfstub.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type validateResult struct {
	Valid    bool     `json:"valid"`
	File     string   `json:"file,omitempty"`
	Catalogs []string `json:"catalogs,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no config file given: pass a file or --config")
	}

	res := validateResult{File: path}
	cfg, err := config.LoadFile(path)
	if err == nil {
		_, err = routes.New(cfg)
	}
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Valid = true
		for _, cc := range cfg.Catalogs {
			res.Catalogs = append(res.Catalogs, cc.Name)
		}
	}

	out := cmd.OutOrStdout()
	if perr := printResult(out, res, func() {
		if res.Valid {
			fmt.Fprintf(out, "%s %s is valid (catalogs: %s)\n", output.Pass("OK"), path, listOrNone(res.Catalogs))
		}
	}); perr != nil {
		return perr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
