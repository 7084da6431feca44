package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdantbooks/receiptor/internal/config"
	"github.com/verdantbooks/receiptor/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the receiptor server",
	Long: `Start the receiptor HTTP server.

The server provides:
  - /health                 - Basic server health check
  - /ready                  - Readiness check (includes provider configuration)
  - /status                 - Detailed status
  - /api/receipts/process   - Receipt extraction

Examples:
  receiptor serve                    # Start on default port 8080
  receiptor serve --port 3000        # Start on custom port
  receiptor serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
