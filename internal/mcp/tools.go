// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents browse, rename and delete recorded paths

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/trail/internal/geojson"
	"github.com/harper/trail/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerListPathsTool()
	s.registerGetPathTool()
	s.registerDeletePathTool()
	s.registerUpdatePathDetailsTool()
	s.registerRecordingStatsTool()
	s.registerExportPathTool()
}

// PathSummary is a path without its points.
type PathSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	TotalDistance float64    `json:"total_distance_m"`
	DurationMs    int64      `json:"duration_ms"`
	PointCount    int        `json:"point_count"`
}

func summarize(p *models.Path) PathSummary {
	return PathSummary{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		TotalDistance: p.TotalDistance,
		DurationMs:    p.Duration,
		PointCount:    len(p.Points),
	}
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	return id, nil
}

// ListPathsInput defines input for list_paths tool.
type ListPathsInput struct {
	Limit int `json:"limit,omitempty"`
}

// ListPathsOutput defines output for list_paths tool.
type ListPathsOutput struct {
	Paths []PathSummary `json:"paths"`
	Count int           `json:"count"`
}

func (s *Server) registerListPathsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_paths",
		Description: "List recorded paths, newest first, with distance and duration.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of paths to return (default: all)",
				},
			},
		},
	}, s.handleListPaths)
}

func (s *Server) handleListPaths(ctx context.Context, _ *mcp.CallToolRequest, input ListPathsInput) (*mcp.CallToolResult, ListPathsOutput, error) {
	all, err := s.service.GetAllPaths(ctx)
	if err != nil {
		return nil, ListPathsOutput{}, fmt.Errorf("failed to list paths: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartTime.After(all[j].StartTime)
	})
	if input.Limit > 0 && len(all) > input.Limit {
		all = all[:input.Limit]
	}

	output := ListPathsOutput{Paths: make([]PathSummary, len(all)), Count: len(all)}
	for i, p := range all {
		output.Paths[i] = summarize(p)
	}
	return textResult(output), output, nil
}

// GetPathInput defines input for get_path tool.
type GetPathInput struct {
	ID            string `json:"id"`
	IncludePoints bool   `json:"include_points,omitempty"`
}

// GetPathOutput defines output for get_path tool.
type GetPathOutput struct {
	PathSummary
	Points []models.Sample `json:"points,omitempty"`
}

func (s *Server) registerGetPathTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_path",
		Description: "Get a recorded path by id, optionally with every sample.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Path id",
				},
				"include_points": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the recorded samples (default: false)",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleGetPath)
}

func (s *Server) handleGetPath(ctx context.Context, _ *mcp.CallToolRequest, input GetPathInput) (*mcp.CallToolResult, GetPathOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, GetPathOutput{}, err
	}
	p, err := s.service.GetPathByID(ctx, id)
	if err != nil {
		return nil, GetPathOutput{}, fmt.Errorf("failed to get path: %w", err)
	}

	output := GetPathOutput{PathSummary: summarize(p)}
	if input.IncludePoints {
		output.Points = p.Points
	}
	return textResult(output), output, nil
}

// DeletePathInput defines input for delete_path tool.
type DeletePathInput struct {
	ID string `json:"id"`
}

// DeletePathOutput defines output for delete_path tool.
type DeletePathOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

func (s *Server) registerDeletePathTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_path",
		Description: "Permanently delete a recorded path.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Path id",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleDeletePath)
}

func (s *Server) handleDeletePath(ctx context.Context, _ *mcp.CallToolRequest, input DeletePathInput) (*mcp.CallToolResult, DeletePathOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DeletePathOutput{}, err
	}
	ok, err := s.service.DeletePath(ctx, id)
	if err != nil {
		return nil, DeletePathOutput{}, fmt.Errorf("failed to delete path: %w", err)
	}

	output := DeletePathOutput{Deleted: ok, ID: id}
	return textResult(output), output, nil
}

// UpdatePathDetailsInput defines input for update_path_details tool.
type UpdatePathDetailsInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Server) registerUpdatePathDetailsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_path_details",
		Description: "Rename a path or change its description. Omitted fields are left unchanged. Names must not be blank; an empty description clears it.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Path id",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New name",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "New description",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleUpdatePathDetails)
}

func (s *Server) handleUpdatePathDetails(ctx context.Context, _ *mcp.CallToolRequest, input UpdatePathDetailsInput) (*mcp.CallToolResult, PathSummary, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, PathSummary{}, err
	}
	details := models.Details{Name: input.Name, Description: input.Description}
	if details.Empty() {
		return nil, PathSummary{}, fmt.Errorf("name or description is required")
	}
	if details.Name != nil {
		if err := models.ValidateName(*details.Name); err != nil {
			return nil, PathSummary{}, err
		}
	}

	p, err := s.service.UpdatePathDetails(ctx, id, details)
	if err != nil {
		return nil, PathSummary{}, fmt.Errorf("failed to update path: %w", err)
	}

	output := summarize(p)
	return textResult(output), output, nil
}

// RecordingStatsInput defines input for recording_stats tool.
type RecordingStatsInput struct{}

// RecordingStatsOutput defines output for recording_stats tool.
type RecordingStatsOutput struct {
	Recording bool          `json:"recording"`
	Stats     *models.Stats `json:"stats,omitempty"`
}

func (s *Server) registerRecordingStatsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recording_stats",
		Description: "Report whether this server process has a recording in progress, with its live distance, duration and point count. Recordings started by a separate 'trail record' process are not visible here, so this reports idle unless a recording runs in the same process.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}, s.handleRecordingStats)
}

func (s *Server) handleRecordingStats(_ context.Context, _ *mcp.CallToolRequest, _ RecordingStatsInput) (*mcp.CallToolResult, RecordingStatsOutput, error) {
	stats, err := s.service.GetCurrentStats()
	if err != nil {
		return nil, RecordingStatsOutput{}, err
	}

	output := RecordingStatsOutput{Recording: stats != nil, Stats: stats}
	return textResult(output), output, nil
}

// ExportPathInput defines input for export_path_geojson tool.
type ExportPathInput struct {
	ID string `json:"id"`
}

func (s *Server) registerExportPathTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_path_geojson",
		Description: "Export a recorded path as a GeoJSON FeatureCollection for mapping.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Path id",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleExportPath)
}

func (s *Server) handleExportPath(ctx context.Context, _ *mcp.CallToolRequest, input ExportPathInput) (*mcp.CallToolResult, geojson.FeatureCollection, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, geojson.FeatureCollection{}, err
	}
	p, err := s.service.GetPathByID(ctx, id)
	if err != nil {
		return nil, geojson.FeatureCollection{}, fmt.Errorf("failed to get path: %w", err)
	}

	fc := geojson.FromPath(p)
	return textResult(fc), *fc, nil
}
