package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zhouzirui/orgchat/backend/internal/model/user"
)

// ChatRequest is the body of POST /api/chat/multi-agent.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the multi-agent reply.
type ChatResponse struct {
	Response      string         `json:"response"`
	SessionID     string         `json:"session_id"`
	AgentUsed     string         `json:"agent_used,omitempty"`
	QueryAnalysis map[string]any `json:"query_analysis,omitempty"`
}

// HistoryEntry is one turn of the backend-side conversation memory.
type HistoryEntry map[string]any

// History is the backend's stored conversation for a session.
type History struct {
	SessionID string         `json:"session_id"`
	History   []HistoryEntry `json:"history"`
}

// Health is the backend health probe answer.
type Health struct {
	Status string `json:"status"`
}

type statusMessage struct {
	Message string `json:"message"`
}

// Chat forwards one user message to the multi-agent endpoint.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/multi-agent", req, &resp); err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

// History fetches the backend conversation memory of a backend session.
func (c *Client) History(ctx context.Context, sessionID string) (History, error) {
	var h History
	err := c.do(ctx, http.MethodGet, "/api/chat/sessions/"+escape(sessionID)+"/history", nil, &h)
	return h, err
}

// ClearHistory drops the backend conversation memory of a backend session.
func (c *Client) ClearHistory(ctx context.Context, sessionID string) (string, error) {
	var msg statusMessage
	err := c.do(ctx, http.MethodDelete, "/api/chat/sessions/"+escape(sessionID), nil, &msg)
	return msg.Message, err
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

// CurrentUser returns the account behind the client's token.
func (c *Client) CurrentUser(ctx context.Context) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &u)
	return u, err
}

// ListUsers pages through accounts. Requires hr or admin.
func (c *Client) ListUsers(ctx context.Context, skip, limit int) ([]user.User, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var users []user.User
	if err := c.do(ctx, http.MethodGet, "/users/?"+q.Encode(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one account. Requires hr or admin.
func (c *Client) GetUser(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/users/"+escape(id), nil, &u)
	return u, err
}

// CreateUser adds an account. Requires admin.
func (c *Client) CreateUser(ctx context.Context, in user.CreateUser) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodPost, "/users/", in, &u)
	return u, err
}

// UpdateUser applies a partial update. Requires admin.
func (c *Client) UpdateUser(ctx context.Context, id string, in user.UpdateUser) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodPut, "/users/"+escape(id), in, &u)
	return u, err
}

// DeleteUser removes an account permanently. Requires admin.
func (c *Client) DeleteUser(ctx context.Context, id string) (string, error) {
	return c.statusCall(ctx, http.MethodDelete, "/users/"+escape(id))
}

// ActivateUser re-enables an account. Requires admin.
func (c *Client) ActivateUser(ctx context.Context, id string) (string, error) {
	return c.statusCall(ctx, http.MethodPatch, "/users/"+escape(id)+"/activate")
}

// DeactivateUser disables an account without deleting it. Requires admin.
func (c *Client) DeactivateUser(ctx context.Context, id string) (string, error) {
	return c.statusCall(ctx, http.MethodPatch, "/users/"+escape(id)+"/deactivate")
}

func (c *Client) statusCall(ctx context.Context, method, path string) (string, error) {
	var msg statusMessage
	if err := c.do(ctx, method, path, nil, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}
