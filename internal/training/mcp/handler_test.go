package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

// mockVolumeService implements volumeService for tests.
type mockVolumeService struct {
	lastParams volume.SummaryParams
	summary    *volume.ClassifiedSummary
	sessions   *volume.SessionSummary
	categories *volume.CategorySummary
	isolated   *volume.IsolatedSummary
	err        error
}

func (m *mockVolumeService) ComputeVolumeSummary(_ context.Context, params volume.SummaryParams) (*volume.ClassifiedSummary, error) {
	m.lastParams = params
	return m.summary, m.err
}

func (m *mockVolumeService) ComputeSessionSummary(_ context.Context, params volume.SummaryParams) (*volume.SessionSummary, error) {
	m.lastParams = params
	return m.sessions, m.err
}

func (m *mockVolumeService) ComputeCategorySummary(_ context.Context, params volume.SummaryParams) (*volume.CategorySummary, error) {
	m.lastParams = params
	return m.categories, m.err
}

func (m *mockVolumeService) ComputeIsolatedSummary(_ context.Context, params volume.SummaryParams) (*volume.IsolatedSummary, error) {
	m.lastParams = params
	return m.isolated, m.err
}

func (m *mockVolumeService) Classify(value float64, role string) (volume.Classification, error) {
	if role != "direct" && role != "indirect" {
		return volume.Classification{}, fmt.Errorf("%w: %q", volume.ErrUnknownRole, role)
	}
	if value >= 10 {
		return volume.Classification{Class: volume.ClassOptimal, Label: "Optimal volume"}, nil
	}
	return volume.Classification{Class: volume.ClassLow, Label: "Low volume"}, nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_GetVolumeSummaryTool(t *testing.T) {
	t.Run("returns_summary", func(t *testing.T) {
		svc := &mockVolumeService{
			summary: &volume.ClassifiedSummary{
				Method: volume.MethodAverage,
				Direct: []volume.MuscleVolume{{Muscle: "Chest", Sets: 4}},
			},
		}
		fn := NewHandler(svc).GetVolumeSummaryTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SummaryInput{
			Source:     "log",
			Method:     "Average",
			Routine:    "Push",
			FromDate:   "2024-01-01",
			ToDate:     "2024-01-07",
			IncludeAll: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}

		var got volume.ClassifiedSummary
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatalf("unmarshal result: %v", err)
		}
		if got.Method != volume.MethodAverage || len(got.Direct) != 1 || got.Direct[0].Sets != 4 {
			t.Fatalf("unexpected summary: %+v", got)
		}

		p := svc.lastParams
		if p.Source != "log" || p.Method != "Average" || !p.IncludeAllMuscleGroups {
			t.Fatalf("unexpected params: %+v", p)
		}
		if p.Filter.Routine != "Push" || p.Filter.From == nil || p.Filter.To == nil {
			t.Fatalf("unexpected filter: %+v", p.Filter)
		}
		if got := p.Filter.To.Format("2006-01-02"); got != "2024-01-08" {
			t.Fatalf("to_date should cover the whole day, got %s", got)
		}
	})

	t.Run("invalid_date", func(t *testing.T) {
		svc := &mockVolumeService{}
		fn := NewHandler(svc).GetVolumeSummaryTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SummaryInput{FromDate: "last week"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); !strings.HasPrefix(text, "Invalid input: ") {
			t.Fatalf("content text = %q", text)
		}
	})

	t.Run("store_unavailable", func(t *testing.T) {
		svc := &mockVolumeService{
			err: fmt.Errorf("%w: list plan entries: %w", volume.ErrStoreUnavailable, errors.New("dial tcp: refused")),
		}
		fn := NewHandler(svc).GetVolumeSummaryTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SummaryInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); text != "Error computing volume summary: training data is currently unavailable" {
			t.Fatalf("content text = %q", text)
		}
	})

	t.Run("filter_not_for_source", func(t *testing.T) {
		svc := &mockVolumeService{err: fmt.Errorf("%w: \"from\" does not apply", entries.ErrUnknownFilterKey)}
		fn := NewHandler(svc).GetVolumeSummaryTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, SummaryInput{FromDate: "2024-01-01"})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); !strings.Contains(text, "does not apply") {
			t.Fatalf("content text = %q", text)
		}
	})
}

func TestHandler_OtherSummaryTools(t *testing.T) {
	svc := &mockVolumeService{
		sessions:   &volume.SessionSummary{Routines: []volume.RoutineVolume{{Routine: "Push"}}},
		categories: &volume.CategorySummary{Combined: []volume.CategoryBucket{{Key: "Compound/Push", Entries: 2}}},
		isolated:   &volume.IsolatedSummary{Muscles: []volume.IsolatedMuscle{{Muscle: "long head", Sets: 3}}},
	}
	h := NewHandler(svc)

	for name, fn := range map[string]func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error){
		"Push":          h.GetSessionSummaryTool(),
		"Compound/Push": h.GetCategorySummaryTool(),
		"long head":     h.GetIsolatedMusclesTool(),
	} {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SummaryInput{Exercise: "Bench Press"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if res.IsError {
			t.Fatalf("%s: unexpected IsError: %s", name, resultText(t, res))
		}
		if text := resultText(t, res); !strings.Contains(text, name) {
			t.Fatalf("%s: missing in %q", name, text)
		}
		if svc.lastParams.Filter.Exercise != "Bench Press" {
			t.Fatalf("%s: exercise filter not passed", name)
		}
	}
}

func TestHandler_ClassifyVolumeTool(t *testing.T) {
	fn := NewHandler(&mockVolumeService{}).ClassifyVolumeTool()

	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ClassifyInput{Value: 12, Role: "direct"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	var c volume.Classification
	if err := json.Unmarshal([]byte(resultText(t, res)), &c); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if c.Class != volume.ClassOptimal {
		t.Fatalf("class = %s", c.Class)
	}

	res, _, _ = fn(context.Background(), &mcp.CallToolRequest{}, ClassifyInput{Value: 12, Role: "sideways"})
	if !res.IsError {
		t.Fatalf("expected IsError")
	}
}

func TestNewServer(t *testing.T) {
	ctx := context.Background()
	server := NewServer(&mockVolumeService{
		summary: &volume.ClassifiedSummary{Method: volume.MethodTotal},
	})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"get_volume_summary",
		"get_session_summary",
		"get_category_summary",
		"get_isolated_muscles",
		"classify_volume",
	} {
		if !names[want] {
			t.Fatalf("tool %s not registered", want)
		}
	}

	res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_volume_summary",
		Arguments: map[string]any{"method": "Total"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
}
