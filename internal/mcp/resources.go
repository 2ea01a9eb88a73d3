// ABOUTME: MCP resource definitions
// ABOUTME: Provides read-only views of recorded paths for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PathsResourceURI lists every recorded path.
const PathsResourceURI = "trail://paths"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        PathsResourceURI,
		Description: "All recorded paths with distance, duration and point counts",
		URI:         PathsResourceURI,
		MIMEType:    "application/json",
	}, s.handlePathsResource)
}

func (s *Server) handlePathsResource(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	all, err := s.service.GetAllPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}

	output := ListPathsOutput{Paths: make([]PathSummary, len(all)), Count: len(all)}
	for i, p := range all {
		output.Paths[i] = summarize(p)
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      PathsResourceURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
