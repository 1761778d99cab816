package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/engine"
	"github.com/getmockd/perfstub/pkg/logging"
	"github.com/getmockd/perfstub/pkg/routes"
)

var (
	serveHost      string
	servePort      int
	serveLogLevel  string
	serveLogFormat string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock API server",
	Long: `Start the mock API server and block until interrupted.

Flags override the matching config values.

Examples:
  perfstub serve
  perfstub serve --port 3000 --log-level debug
  perfstub serve --config perfstub.yaml --log-format json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: text or json")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveLogLevel != "" {
		cfg.Log.Level = serveLogLevel
	}
	if serveLogFormat != "" {
		cfg.Log.Format = serveLogFormat
	}

	var tee io.Writer
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer f.Close()
		tee = f
	}
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
		Tee:    tee,
	})

	rt, err := routes.New(cfg, routes.WithLogger(log))
	if err != nil {
		return err
	}
	srv := engine.NewServer(cfg, rt, engine.WithLogger(log))
	if err := srv.Start(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "perfstub listening on %s\n", srv.URL())
	for _, c := range rt.Catalogs() {
		fmt.Fprintf(out, "  %-10s %s\n", c.Name(), c.BasePath())
	}
	fmt.Fprintf(out, "  %-10s %s/openapi.json\n", "openapi", srv.URL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down", "uptime", srv.Uptime())
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
