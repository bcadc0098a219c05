package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"roadcare/internal/core/domain"
)

// ============================================================
// Auth
// ============================================================

// Register creates an account and returns the issued credential
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges email and password for a credential
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut tells the backend the user has signed out
func (c *Client) SignOut(ctx context.Context, userID string) error {
	return c.call(ctx, http.MethodPost, "/auth/sign-out/"+url.PathEscape(userID), nil, nil)
}

// ============================================================
// Road surface issues
// ============================================================

// ListIssues returns every issue
func (c *Client) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	var out []domain.Issue
	if err := c.call(ctx, http.MethodGet, "/roadsurfaceissue", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIssue returns one issue
func (c *Client) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	var out domain.Issue
	if err := c.call(ctx, http.MethodGet, "/roadsurfaceissue/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListIssuesByUser returns the issues reported by one user
func (c *Client) ListIssuesByUser(ctx context.Context, userID string) ([]domain.Issue, error) {
	var out []domain.Issue
	if err := c.call(ctx, http.MethodGet, "/roadsurfaceissue/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListIssuesByStatus returns the issues currently in status
func (c *Client) ListIssuesByStatus(ctx context.Context, status domain.IssueStatus) ([]domain.Issue, error) {
	var out []domain.Issue
	if err := c.call(ctx, http.MethodGet, "/roadsurfaceissue/status/"+url.PathEscape(string(status)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIssue reports a new issue
func (c *Client) CreateIssue(ctx context.Context, req domain.IssueRequest) (*domain.Issue, error) {
	var out domain.Issue
	if err := c.call(ctx, http.MethodPost, "/roadsurfaceissue", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIssue replaces the editable fields of an issue
func (c *Client) UpdateIssue(ctx context.Context, id string, req domain.IssueRequest) error {
	return c.call(ctx, http.MethodPut, "/roadsurfaceissue/"+url.PathEscape(id), req, nil)
}

// UpdateIssueStatus moves an issue to status
func (c *Client) UpdateIssueStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	body := map[string]domain.IssueStatus{"status": status}
	return c.call(ctx, http.MethodPut, "/roadsurfaceissue/"+url.PathEscape(id)+"/status", body, nil)
}

// DeleteIssue removes an issue
func (c *Client) DeleteIssue(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/roadsurfaceissue/"+url.PathEscape(id), nil, nil)
}

// ============================================================
// Public utility responses
// ============================================================

// ListResponses returns the official responses attached to an issue
func (c *Client) ListResponses(ctx context.Context, issueID string) ([]domain.Response, error) {
	var out []domain.Response
	if err := c.call(ctx, http.MethodGet, "/publicutility/issue/"+url.PathEscape(issueID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateResponse posts an official response
func (c *Client) CreateResponse(ctx context.Context, req domain.ResponseRequest) (*domain.Response, error) {
	var out domain.Response
	if err := c.call(ctx, http.MethodPost, "/publicutility", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateResponse edits an official response
func (c *Client) UpdateResponse(ctx context.Context, id string, req domain.ResponseRequest) error {
	return c.call(ctx, http.MethodPut, "/publicutility/"+url.PathEscape(id), req, nil)
}

// DeleteResponse removes an official response
func (c *Client) DeleteResponse(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/publicutility/"+url.PathEscape(id), nil, nil)
}
