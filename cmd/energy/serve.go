// ABOUTME: CLI command for the JSON HTTP API.
// ABOUTME: Serves goals, events, assessments, plans and reports until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON HTTP API over the configured storage.

ENDPOINTS:

  GET    /healthz
  GET    /api/goals            ?archived=true
  POST   /api/goals
  PUT    /api/goals/{id}
  DELETE /api/goals/{id}       archives the goal
  GET    /api/events           ?from=&to=&key_state=&limit=
  POST   /api/events
  GET    /api/assessment       ?date=
  GET    /api/plan             ?date= (default yesterday)
  GET    /api/report
  GET    /api/trends           ?days=
  GET    /api/stats/balance    ?days=

Errors are returned as application/problem+json.

The address defaults to the server_addr config value (127.0.0.1:8765).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetServerAddr()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.Serve(ctx, addr, api.NewHandler(repo, log))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
