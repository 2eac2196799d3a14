package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"qaboard/internal/backend"
	"qaboard/internal/keywords"
	"qaboard/internal/qa"
	"qaboard/internal/rules"
)

// --- mocks ---

type mockSearchClient struct {
	stats      qa.Statistics
	list       backend.QAListResponse
	test       backend.TestResponse
	err        error
	lastParams qa.SearchParams
}

func (m *mockSearchClient) Statistics(_ context.Context, params qa.SearchParams) (qa.Statistics, error) {
	m.lastParams = params
	return m.stats, m.err
}

func (m *mockSearchClient) QAList(_ context.Context, params qa.SearchParams) (backend.QAListResponse, error) {
	return m.list, m.err
}

func (m *mockSearchClient) TestInstructions(_ context.Context, question string) (backend.TestResponse, error) {
	return m.test, m.err
}

// --- helpers ---

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// --- tests ---

func TestMCPTool_SearchQA(t *testing.T) {
	deps := newTestDeps(t)
	client := &mockSearchClient{
		stats: qa.Statistics{TotalUsers: 2, Match: 1, NotEvaluated: 1},
		list: backend.QAListResponse{
			QAList: []qa.QARecord{
				{ID: "qa-1", ChatID: "c1", Question: "billing question", Answer: "a", Timestamp: "2026-08-31T09:00:00Z"},
			},
			TotalCount: 1,
		},
	}

	handler := mcpSearchQA(MCPDeps{Store: deps.Store, Client: client})
	req := makeCallToolRequest("search_qa", map[string]interface{}{
		"mode":       "range",
		"start_date": "2026-08-01",
		"end_date":   "2026-08-31",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var body struct {
		Statistics qa.Statistics `json:"statistics"`
		TotalCount int           `json:"total_count"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &body); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if body.TotalCount != 1 || body.Statistics.TotalUsers != 2 {
		t.Errorf("unexpected result: %+v", body)
	}

	if client.lastParams.Mode != qa.ModeRange {
		t.Errorf("mode sent = %q, want range", client.lastParams.Mode)
	}

	// The search must land in the cache.
	snap, err := deps.Store.LastSearch()
	if err != nil {
		t.Fatalf("LastSearch after tool call: %v", err)
	}
	if len(snap.Records) != 1 || snap.Records[0].ID != "qa-1" {
		t.Errorf("cached records = %+v", snap.Records)
	}
}

func TestMCPTool_SearchQA_InvalidParams(t *testing.T) {
	deps := newTestDeps(t)
	handler := mcpSearchQA(MCPDeps{Store: deps.Store, Client: &mockSearchClient{}})

	req := makeCallToolRequest("search_qa", map[string]interface{}{
		"mode":       "range",
		"start_date": "2026-08-31",
		// end_date missing
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for invalid params")
	}
}

func TestMCPTool_SearchQA_NoClient(t *testing.T) {
	deps := newTestDeps(t)
	handler := mcpSearchQA(MCPDeps{Store: deps.Store})

	result, err := handler(context.Background(), makeCallToolRequest("search_qa", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without a backend client")
	}
}

func TestMCPTool_SearchQA_BackendError(t *testing.T) {
	deps := newTestDeps(t)
	client := &mockSearchClient{err: errors.New("backend down")}
	handler := mcpSearchQA(MCPDeps{Store: deps.Store, Client: client})

	req := makeCallToolRequest("search_qa", map[string]interface{}{
		"start_date": "2026-08-31",
	})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error when the backend fails")
	}
}

func TestMCPTool_TestQuestion(t *testing.T) {
	deps := newTestDeps(t)
	client := &mockSearchClient{
		test: backend.TestResponse{
			MatchedInstructions: []rules.Match{
				{Rule: rules.Rule{ID: "r1", Title: "Billing escalation", Priority: 1}, Reason: `keyword "billing"`},
			},
		},
	}
	handler := mcpTestQuestion(MCPDeps{Store: deps.Store, Client: client})

	req := makeCallToolRequest("test_question", map[string]interface{}{
		"question": "a billing question",
	})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var resp backend.TestResponse
	if err := json.Unmarshal([]byte(toolText(t, result)), &resp); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(resp.MatchedInstructions) != 1 || resp.MatchedInstructions[0].Title != "Billing escalation" {
		t.Errorf("unexpected matches: %+v", resp.MatchedInstructions)
	}
}

func TestMCPTool_TestQuestion_MissingArgument(t *testing.T) {
	deps := newTestDeps(t)
	handler := mcpTestQuestion(MCPDeps{Store: deps.Store, Client: &mockSearchClient{}})

	result, err := handler(context.Background(), makeCallToolRequest("test_question", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing question")
	}
}

func TestMCPTool_AnalyzeKeywords(t *testing.T) {
	deps := newTestDeps(t)
	seedSnapshot(t, deps)
	handler := mcpAnalyzeKeywords(MCPDeps{Store: deps.Store})

	req := makeCallToolRequest("analyze_keywords", map[string]interface{}{
		"limit": 5,
	})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var stats []keywords.Stat
	if err := json.Unmarshal([]byte(toolText(t, result)), &stats); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(stats) == 0 || stats[0].Keyword != "password" {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMCPTool_AnalyzeKeywords_EmptyCache(t *testing.T) {
	deps := newTestDeps(t)
	handler := mcpAnalyzeKeywords(MCPDeps{Store: deps.Store})

	result, err := handler(context.Background(), makeCallToolRequest("analyze_keywords", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error on empty cache")
	}
}

func TestMCPResource_LastSearch(t *testing.T) {
	deps := newTestDeps(t)
	seedSnapshot(t, deps)
	handler := mcpResourceLastSearch(MCPDeps{Store: deps.Store})

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "qaboard://last-search"},
	}
	contents, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var body summaryResponse
	if err := json.Unmarshal([]byte(tc.Text), &body); err != nil {
		t.Fatalf("decoding resource: %v", err)
	}
	if body.RecordCount != 3 {
		t.Errorf("record_count = %d, want 3", body.RecordCount)
	}
}
