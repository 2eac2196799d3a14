package backend

import (
	"context"
	"net/http"

	"qaboard/internal/qa"
)

// Statistics fetches the review-state breakdown for the search window.
// Params must be validated before calling.
func (c *Client) Statistics(ctx context.Context, params qa.SearchParams) (qa.Statistics, error) {
	var resp qa.Statistics
	err := c.call(ctx, http.MethodPost, "/api/dashboard/statistics", params, &resp)
	return resp, err
}

// QAListResponse is the record listing for a search: the latest question per
// chat, filtered server-side.
type QAListResponse struct {
	QAList     []qa.QARecord `json:"qa_list"`
	TotalCount int           `json:"total_count"`
}

// QAList fetches the Q&A records matching the search params.
func (c *Client) QAList(ctx context.Context, params qa.SearchParams) (QAListResponse, error) {
	var resp QAListResponse
	err := c.call(ctx, http.MethodPost, "/api/dashboard/qa_list", params, &resp)
	return resp, err
}
