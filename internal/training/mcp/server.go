package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the volume tools.
// Used by the HTTP service when mounting MCP at /mcp, and by cmd/volume_mcp over stdio.
func NewServer(service volumeService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "hypertrophy-volume",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_volume_summary",
		Description: "Returns weighted set counts per muscle group, split into direct (primary muscle) and indirect (secondary, tertiary) volume, each classified (low, optimal, high, excessive), plus the advanced isolated muscles. Optional: source (plan or log), method (Total, Average, Max), routine, exercise, from_date/to_date (log only), include_all. Diagnostics list skipped entries.",
	}, h.GetVolumeSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_session_summary",
		Description: "Same as get_volume_summary, but computed separately for every routine. Use when comparing training days of a plan.",
	}, h.GetSessionSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_category_summary",
		Description: "Returns entry counts and raw set totals per exercise category: combined Mechanic/Force key (e.g. Compound/Push) and per mechanic, force, equipment, difficulty and utility.",
	}, h.GetCategorySummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_isolated_muscles",
		Description: "Returns the advanced isolated muscles (e.g. sternocostal head) hit by the entries: exercises per muscle and weighted sets, combined with the given method.",
	}, h.GetIsolatedMusclesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "classify_volume",
		Description: "Classifies a weekly set count for a muscle group. Args: value, role (direct or indirect). Returns class, label and tooltip.",
	}, h.ClassifyVolumeTool())

	return s
}
