package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"qaboard/internal/backend"
	"qaboard/internal/keywords"
	"qaboard/internal/qa"
	"qaboard/internal/store"
)

// SearchClient abstracts the review backend for the MCP layer.
type SearchClient interface {
	Statistics(ctx context.Context, params qa.SearchParams) (qa.Statistics, error)
	QAList(ctx context.Context, params qa.SearchParams) (backend.QAListResponse, error)
	TestInstructions(ctx context.Context, question string) (backend.TestResponse, error)
}

// MCPDeps holds dependencies for the MCP server. Client may be nil when no
// backend session is available; tools that need it report an error.
type MCPDeps struct {
	Store  *store.Store
	Client SearchClient
}

// NewMCPServer creates an MCP server with all qaboard tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"qaboard",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("qaboard is an operator console for the Q&A review backend. Use it to search records, test instruction rules, and analyze question keywords."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("search_qa",
			mcp.WithDescription("Search Q&A records on the review backend and cache the result locally."),
			mcp.WithString("mode", mcp.Description("Search mode: day or range (default day)")),
			mcp.WithString("start_date", mcp.Description("Start date YYYY-MM-DD (default today)")),
			mcp.WithString("end_date", mcp.Description("End date YYYY-MM-DD, range mode only")),
			mcp.WithString("match_filter", mcp.Description("Match status filter (default all)")),
		),
		mcpSearchQA(deps),
	)

	s.AddTool(
		mcp.NewTool("test_question",
			mcp.WithDescription("Run a question through the instruction rules on the backend and return the matches."),
			mcp.WithString("question", mcp.Description("Question text to test"), mcp.Required()),
		),
		mcpTestQuestion(deps),
	)

	s.AddTool(
		mcp.NewTool("analyze_keywords",
			mcp.WithDescription("Analyze keyword frequency across the questions of the cached search."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of keywords (default 20)")),
		),
		mcpAnalyzeKeywords(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"qaboard://last-search",
			"Last Search",
			mcp.WithResourceDescription("Summary of the most recent cached search as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceLastSearch(deps),
	)

	return s
}

func mcpSearchQA(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Client == nil {
			return mcpError("search not available: no backend session"), nil
		}

		params := qa.DefaultParams(time.Now())
		params.Mode = req.GetString("mode", params.Mode)
		params.StartDate = req.GetString("start_date", params.StartDate)
		params.EndDate = req.GetString("end_date", "")
		params.MatchFilter = req.GetString("match_filter", params.MatchFilter)

		if err := params.Validate(); err != nil {
			return mcpError(err.Error()), nil
		}

		var stats qa.Statistics
		var list backend.QAListResponse
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stats, err = deps.Client.Statistics(gctx, params)
			return err
		})
		g.Go(func() error {
			var err error
			list, err = deps.Client.QAList(gctx, params)
			return err
		})
		if err := g.Wait(); err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}

		if err := deps.Store.SaveSearch(store.Snapshot{
			Params:     params,
			Statistics: stats,
			Records:    list.QAList,
			FetchedAt:  time.Now(),
		}); err != nil {
			return mcpError(fmt.Sprintf("search succeeded but caching failed: %v", err)), nil
		}

		b, err := json.Marshal(map[string]any{
			"statistics":  stats,
			"total_count": list.TotalCount,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpTestQuestion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Client == nil {
			return mcpError("rule testing not available: no backend session"), nil
		}

		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		resp, err := deps.Client.TestInstructions(ctx, question)
		if err != nil {
			return mcpError(fmt.Sprintf("rule test failed: %v", err)), nil
		}

		b, err := json.Marshal(resp)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAnalyzeKeywords(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}
		if limit > keywords.TopN {
			limit = keywords.TopN
		}

		snap, err := deps.Store.LastSearch()
		if err != nil {
			return mcpError("no cached search; run search_qa first"), nil
		}

		questions := make([]string, len(snap.Records))
		for i, rec := range snap.Records {
			questions[i] = rec.Question
		}
		stats := keywords.Analyze(questions)
		if len(stats) > limit {
			stats = stats[:limit]
		}
		if stats == nil {
			stats = []keywords.Stat{}
		}

		b, err := json.Marshal(stats)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceLastSearch(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := deps.Store.LastSearch()
		if err != nil {
			return nil, fmt.Errorf("no cached search: %w", err)
		}

		b, err := json.Marshal(summaryResponse{
			Params:      snap.Params,
			Statistics:  snap.Statistics,
			RecordCount: len(snap.Records),
			FetchedAt:   snap.FetchedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal search summary: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
