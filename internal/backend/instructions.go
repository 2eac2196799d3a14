package backend

import (
	"context"
	"net/http"

	"qaboard/internal/rules"
)

// RuleOverview is the backend's headline counts for the rule listing.
type RuleOverview struct {
	TotalFiles        int `json:"total_files"`
	TotalInstructions int `json:"total_instructions"`
	ActiveCount       int `json:"active_count"`
	InactiveCount     int `json:"inactive_count"`
}

// RuleListResponse groups the stored rules by source file.
type RuleListResponse struct {
	Files      map[string][]rules.Rule `json:"files"`
	Statistics RuleOverview            `json:"statistics"`
}

// InstructionList fetches every stored rule, grouped by file.
func (c *Client) InstructionList(ctx context.Context) (RuleListResponse, error) {
	var resp RuleListResponse
	err := c.call(ctx, http.MethodGet, "/api/instructions/list", nil, &resp)
	return resp, err
}

type fileListResponse struct {
	Files []string `json:"files"`
}

// InstructionFiles lists the rule file names.
func (c *Client) InstructionFiles(ctx context.Context) ([]string, error) {
	var resp fileListResponse
	if err := c.call(ctx, http.MethodGet, "/api/instructions/files/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

type filenameRequest struct {
	Filename string `json:"filename"`
}

// DeleteInstructionFile removes a rule file and everything in it.
func (c *Client) DeleteInstructionFile(ctx context.Context, filename string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodDelete, "/api/instructions/files/delete", filenameRequest{Filename: filename}, &resp)
	return resp, err
}

// CreateRuleRequest stores a new rule. Keywords travel as the raw
// comma-separated form input; the backend parses them. FileChoice "new"
// creates Filename, otherwise Filename names an existing file.
type CreateRuleRequest struct {
	Title       string `json:"title"`
	Priority    int    `json:"priority"`
	Instruction string `json:"instruction"`
	Keywords    string `json:"keywords"`
	ApplyToAll  bool   `json:"apply_to_all"`
	IsActive    bool   `json:"is_active"`
	FileChoice  string `json:"file_choice"`
	Filename    string `json:"filename"`
}

// CreateInstruction stores a new rule.
func (c *Client) CreateInstruction(ctx context.Context, req CreateRuleRequest) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/instructions/create", req, &resp)
	return resp, err
}

// UpdateRuleRequest rewrites an existing rule in place.
type UpdateRuleRequest struct {
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Priority    int    `json:"priority"`
	Instruction string `json:"instruction"`
	Keywords    string `json:"keywords"`
	ApplyToAll  bool   `json:"apply_to_all"`
	IsActive    bool   `json:"is_active"`
}

// UpdateInstruction rewrites the rule with the given id.
func (c *Client) UpdateInstruction(ctx context.Context, id string, req UpdateRuleRequest) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPut, "/api/instructions/update/"+id, req, &resp)
	return resp, err
}

// DeleteInstruction removes one rule from its file.
func (c *Client) DeleteInstruction(ctx context.Context, id, filename string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodDelete, "/api/instructions/delete/"+id, filenameRequest{Filename: filename}, &resp)
	return resp, err
}

// ToggleInstruction flips a rule between active and inactive.
func (c *Client) ToggleInstruction(ctx context.Context, id, filename string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/instructions/toggle/"+id, filenameRequest{Filename: filename}, &resp)
	return resp, err
}

// CopyInstruction duplicates a rule within its file.
func (c *Client) CopyInstruction(ctx context.Context, id, filename string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/instructions/copy/"+id, filenameRequest{Filename: filename}, &resp)
	return resp, err
}

type testRequest struct {
	Question string `json:"question"`
}

// TestMatchStats summarizes the rule set around one dry-run.
type TestMatchStats struct {
	TotalInstructions int     `json:"total_instructions"`
	TotalActive       int     `json:"total_active"`
	TotalMatched      int     `json:"total_matched"`
	MatchRate         float64 `json:"match_rate"`
}

// TestResponse is the backend's authoritative dry-run result. The local
// preview in the rules package must stay consistent with it.
type TestResponse struct {
	Success             bool           `json:"success"`
	Message             string         `json:"message,omitempty"`
	MatchedInstructions []rules.Match  `json:"matched_instructions"`
	InactiveMatches     []rules.Match  `json:"inactive_matches"`
	Statistics          TestMatchStats `json:"statistics"`
}

// TestInstructions runs a server-side dry-run of the question against the
// stored rules.
func (c *Client) TestInstructions(ctx context.Context, question string) (TestResponse, error) {
	var resp TestResponse
	err := c.call(ctx, http.MethodPost, "/api/instructions/test", testRequest{Question: question}, &resp)
	return resp, err
}

// RuleBasicStats is the headline block of the statistics panel.
type RuleBasicStats struct {
	TotalCount    int     `json:"total_count"`
	ActiveCount   int     `json:"active_count"`
	InactiveCount int     `json:"inactive_count"`
	FilesCount    int     `json:"files_count"`
	AvgPriority   float64 `json:"avg_priority"`
}

// RuleKeywordCount is one ranked keyword across the rule set.
type RuleKeywordCount struct {
	Rank       int     `json:"rank,omitempty"`
	Keyword    string  `json:"keyword"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage,omitempty"`
}

// RuleKeywordStats summarizes keyword usage across the rule set.
type RuleKeywordStats struct {
	TopKeywords         []RuleKeywordCount `json:"top_keywords"`
	TotalUniqueKeywords int                `json:"total_unique_keywords"`
	TotalKeywordUsage   int                `json:"total_keyword_usage"`
}

// InstructionStats is the rule-set statistics panel.
type InstructionStats struct {
	HasData      bool             `json:"has_data"`
	BasicStats   RuleBasicStats   `json:"basic_stats"`
	KeywordStats RuleKeywordStats `json:"keyword_stats"`
}

// InstructionStatistics fetches aggregate statistics over the rule set.
func (c *Client) InstructionStatistics(ctx context.Context) (InstructionStats, error) {
	var resp InstructionStats
	err := c.call(ctx, http.MethodGet, "/api/instructions/statistics", nil, &resp)
	return resp, err
}

// KeywordAnalysis ranks keyword usage across the rule set.
type KeywordAnalysis struct {
	HasData             bool               `json:"has_data"`
	KeywordAnalysis     []RuleKeywordCount `json:"keyword_analysis"`
	TotalUniqueKeywords int                `json:"total_unique_keywords"`
	TotalKeywordUsage   int                `json:"total_keyword_usage"`
}

// InstructionKeywordAnalysis fetches the ranked keyword usage.
func (c *Client) InstructionKeywordAnalysis(ctx context.Context) (KeywordAnalysis, error) {
	var resp KeywordAnalysis
	err := c.call(ctx, http.MethodGet, "/api/instructions/keyword_analysis", nil, &resp)
	return resp, err
}
