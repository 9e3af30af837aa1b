// ABOUTME: MCP server setup for the fitness tracker.
// ABOUTME: Wraps the MCP server with a storage Repository and the session user it acts for.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	session   models.Session
}

// NewServer creates a new MCP server acting for session.UserID.
func NewServer(repo storage.Repository, session models.Session, version string) (*Server, error) {
	if repo == nil {
		return nil, errors.New("mcp: repository is required")
	}
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitness",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		session:   session,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Int64("user_id", s.session.UserID).Str("driver", s.repo.Driver()).Msg("Starting MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
