package backend

import (
	"context"
	"net/http"
)

// SendEmailRequest shares one Q&A record by email. The backend renders and
// delivers the message.
type SendEmailRequest struct {
	QAID   string   `json:"qa_id"`
	ToList []string `json:"to_list"`
	CcList []string `json:"cc_list"`
	Memo   string   `json:"memo"`
}

// SendEmail shares a record with the given recipients.
func (c *Client) SendEmail(ctx context.Context, req SendEmailRequest) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/email/send", req, &resp)
	return resp, err
}

// SentInfo describes one completed delivery.
type SentInfo struct {
	SentTime string   `json:"sent_time"`
	To       []string `json:"to"`
	Cc       []string `json:"cc"`
	Memo     string   `json:"memo"`
}

// SentInfo fetches the delivery details for an already-shared record.
func (c *Client) SentInfo(ctx context.Context, qaID string) (SentInfo, error) {
	var resp SentInfo
	err := c.call(ctx, http.MethodGet, "/api/email/sent_info/"+qaID, nil, &resp)
	return resp, err
}

// EmailSettings is the backend's mail configuration status.
type EmailSettings struct {
	FullyAvailable bool   `json:"fully_available"`
	SMTPServer     string `json:"smtp_server"`
	SMTPPort       string `json:"smtp_port"`
	SenderEmail    string `json:"sender_email"`
	Message        string `json:"message,omitempty"`
}

// EmailSettings fetches the backend's mail configuration status.
func (c *Client) EmailSettings(ctx context.Context) (EmailSettings, error) {
	var resp EmailSettings
	err := c.call(ctx, http.MethodGet, "/api/email/settings", nil, &resp)
	return resp, err
}

// SentHistory is the stored delivery log, keyed by record id.
type SentHistory struct {
	SentCount  int                 `json:"sent_count"`
	SentEmails map[string]SentInfo `json:"sent_emails"`
}

// SentHistory fetches the delivery log.
func (c *Client) SentHistory(ctx context.Context) (SentHistory, error) {
	var resp SentHistory
	err := c.call(ctx, http.MethodGet, "/api/email/sent_history", nil, &resp)
	return resp, err
}

// ClearSentHistory deletes the delivery log.
func (c *Client) ClearSentHistory(ctx context.Context) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodDelete, "/api/email/sent_history", nil, &resp)
	return resp, err
}

type testEmailRequest struct {
	Email string `json:"email"`
}

// SendTestEmail asks the backend to deliver a test message to one address.
func (c *Client) SendTestEmail(ctx context.Context, address string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/email/test", testEmailRequest{Email: address}, &resp)
	return resp, err
}
