package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

type volumeService interface {
	ComputeVolumeSummary(ctx context.Context, params volume.SummaryParams) (*volume.ClassifiedSummary, error)
	ComputeSessionSummary(ctx context.Context, params volume.SummaryParams) (*volume.SessionSummary, error)
	ComputeCategorySummary(ctx context.Context, params volume.SummaryParams) (*volume.CategorySummary, error)
	ComputeIsolatedSummary(ctx context.Context, params volume.SummaryParams) (*volume.IsolatedSummary, error)
	Classify(value float64, role string) (volume.Classification, error)
}

// Handler handles MCP tool requests: parses input, calls the volume service, formats the result.
type Handler struct {
	service volumeService
}

func NewHandler(service volumeService) *Handler {
	return &Handler{
		service: service,
	}
}

// SummaryInput is the input shared by the summary tools.
type SummaryInput struct {
	Source     string `json:"source,omitempty" jsonschema:"Entries source: plan (default) or log"`
	Method     string `json:"method,omitempty" jsonschema:"Aggregation method: Total (default), Average or Max"`
	Routine    string `json:"routine,omitempty" jsonschema:"Only entries of this routine (exact name)"`
	Exercise   string `json:"exercise,omitempty" jsonschema:"Only entries of this exercise (exact name)"`
	FromDate   string `json:"from_date,omitempty" jsonschema:"Log only: start date (YYYY-MM-DD), inclusive"`
	ToDate     string `json:"to_date,omitempty" jsonschema:"Log only: end date (YYYY-MM-DD), inclusive"`
	IncludeAll bool   `json:"include_all,omitempty" jsonschema:"Include every known muscle group, also the ones with zero sets"`
}

func (in SummaryInput) params() (volume.SummaryParams, error) {
	filter, err := entries.ParseFilter(map[string]string{
		string(entries.FilterRoutine):  in.Routine,
		string(entries.FilterExercise): in.Exercise,
		string(entries.FilterFrom):     in.FromDate,
		string(entries.FilterTo):       in.ToDate,
	})
	if err != nil {
		return volume.SummaryParams{}, err
	}
	return volume.SummaryParams{
		Source:                 in.Source,
		Method:                 in.Method,
		Filter:                 filter,
		IncludeAllMuscleGroups: in.IncludeAll,
	}, nil
}

// ClassifyInput is the input for classify_volume.
type ClassifyInput struct {
	Value float64 `json:"value" jsonschema:"Weekly set count of a muscle group"`
	Role  string  `json:"role" jsonschema:"direct or indirect"`
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	text := prefix + err.Error()
	if errors.Is(err, volume.ErrStoreUnavailable) {
		text = prefix + "training data is currently unavailable"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: ", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// summaryTool builds a tool handler around one of the summary computations.
func summaryTool[T any](
	compute func(context.Context, volume.SummaryParams) (*T, error),
	errPrefix string,
) func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SummaryInput) (*mcp.CallToolResult, any, error) {
		params, err := in.params()
		if err != nil {
			return errorResult("Invalid input: ", err), nil, nil
		}
		summary, err := compute(ctx, params)
		if err != nil {
			return errorResult(errPrefix, err), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

// GetVolumeSummaryTool returns the MCP tool handler for get_volume_summary.
func (h *Handler) GetVolumeSummaryTool() func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return summaryTool(h.service.ComputeVolumeSummary, "Error computing volume summary: ")
}

// GetSessionSummaryTool returns the MCP tool handler for get_session_summary.
func (h *Handler) GetSessionSummaryTool() func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return summaryTool(h.service.ComputeSessionSummary, "Error computing session summary: ")
}

// GetCategorySummaryTool returns the MCP tool handler for get_category_summary.
func (h *Handler) GetCategorySummaryTool() func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return summaryTool(h.service.ComputeCategorySummary, "Error computing category summary: ")
}

// GetIsolatedMusclesTool returns the MCP tool handler for get_isolated_muscles.
func (h *Handler) GetIsolatedMusclesTool() func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return summaryTool(h.service.ComputeIsolatedSummary, "Error computing isolated muscles: ")
}

// ClassifyVolumeTool returns the MCP tool handler for classify_volume.
func (h *Handler) ClassifyVolumeTool() func(context.Context, *mcp.CallToolRequest, ClassifyInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ClassifyInput) (*mcp.CallToolResult, any, error) {
		c, err := h.service.Classify(in.Value, in.Role)
		if err != nil {
			return errorResult("Invalid input: ", err), nil, nil
		}
		return jsonResult(c), nil, nil
	}
}
