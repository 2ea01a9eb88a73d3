// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with path tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/trail/internal/paths"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server around the path service.
type Server struct {
	mcp     *mcp.Server
	service *paths.Service
}

// NewServer creates MCP server with all capabilities.
func NewServer(service *paths.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("path service is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trail",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		service: service,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
