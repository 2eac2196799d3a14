package backend

import (
	"context"
	"net/http"

	"qaboard/internal/qa"
)

// QADetailResponse is one record plus the rest of its chat session.
type QADetailResponse struct {
	TargetQA             qa.QARecord   `json:"target_qa"`
	ChatID               string        `json:"chat_id"`
	SessionConversations []qa.QARecord `json:"session_conversations"`
}

// QADetail fetches a record and its full session conversation.
func (c *Client) QADetail(ctx context.Context, id string) (QADetailResponse, error) {
	var resp QADetailResponse
	err := c.call(ctx, http.MethodGet, "/api/qa/detail/"+id, nil, &resp)
	return resp, err
}

type updateMatchStatusRequest struct {
	QAID        string   `json:"qa_id"`
	MatchStatus *float64 `json:"match_status"`
}

// UpdateMatchStatus stores an operator judgment. nil clears the record back
// to unreviewed.
func (c *Client) UpdateMatchStatus(ctx context.Context, id string, status *float64) (StatusResponse, error) {
	var resp StatusResponse
	req := updateMatchStatusRequest{QAID: id, MatchStatus: status}
	err := c.call(ctx, http.MethodPost, "/api/qa/update_match_status", req, &resp)
	return resp, err
}

type updateReflectionRequest struct {
	QAID                string `json:"qa_id"`
	ReflectionCompleted bool   `json:"reflection_completed"`
}

// UpdateReflectionStatus flags whether corrective action from this record
// has been incorporated elsewhere.
func (c *Client) UpdateReflectionStatus(ctx context.Context, id string, completed bool) (StatusResponse, error) {
	var resp StatusResponse
	req := updateReflectionRequest{QAID: id, ReflectionCompleted: completed}
	err := c.call(ctx, http.MethodPost, "/api/qa/update_reflection_status", req, &resp)
	return resp, err
}
