// ABOUTME: Stdio MCP server exposing energy readiness, planning and logging.
// ABOUTME: Tools and resources share one Repository, rule engine and reporter.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/logger"
	"github.com/harperreed/energy/internal/report"
	"github.com/harperreed/energy/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

const instructions = `Call get_assessment before suggesting work: it returns the readiness score,
key state and the day's energy budget. get_plan allocates that budget across
active goals. Record finished activities with log_event.`

// Server holds the MCP server and everything its handlers read from.
type Server struct {
	srv     *mcp.Server
	repo    storage.Repository
	engine  *energy.Engine
	reports *report.Reporter
	log     *logger.Logger
	now     func() time.Time
}

// NewServer registers every tool and resource against repo.
func NewServer(repo storage.Repository, log *logger.Logger) (*Server, error) {
	s := &Server{
		srv: mcp.NewServer(
			&mcp.Implementation{Name: "energy", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		repo:    repo,
		engine:  energy.New(repo),
		reports: report.New(repo),
		log:     logger.OrNop(log),
		now:     time.Now,
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Serve blocks on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio", "version", Version)
	return s.srv.Run(ctx, &mcp.StdioTransport{})
}
