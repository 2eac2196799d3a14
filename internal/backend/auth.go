package backend

import (
	"context"
	"net/http"
)

// StatusResponse is the backend's generic success/message envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type authCheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

// AuthCheck reports whether the saved session is still valid.
func (c *Client) AuthCheck(ctx context.Context) (bool, error) {
	var resp authCheckResponse
	if err := c.call(ctx, http.MethodGet, "/api/auth/check", nil, &resp); err != nil {
		return false, err
	}
	return resp.Authenticated, nil
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the operator password for a session cookie. A wrong
// password is not an error: the backend answers success=false.
func (c *Client) Login(ctx context.Context, password string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.call(ctx, http.MethodPost, "/api/auth/login", loginRequest{Password: password}, &resp)
	return resp, err
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}
