package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sciviz/figlint/internal/api"
)

// serveCommand creates the serve command for running the HTTP audit service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP audit service",
		Long: `Run the HTTP audit service.

The service exposes audit and fix endpoints under /v1, archives
reports to the configured store, and shares the same cache-backed
pipeline as the CLI commands. Without a config file it listens on
:8080 with an in-memory report store and a local file cache.

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe builds the server from config and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg := api.DefaultConfig()
	if configPath != "" {
		loaded, err := api.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if cfg.CacheDir == "" {
		if dir, err := cacheDir(); err == nil {
			cfg.CacheDir = dir
		}
	}

	server, err := api.BuildServer(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Close(closeCtx); err != nil {
			c.Logger.Warn("Server close failed", "error", err)
		}
	}()

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Addr))
	return server.ListenAndServe(ctx, cfg.Addr)
}
