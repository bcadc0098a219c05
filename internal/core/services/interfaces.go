package services

import (
	"context"

	"roadcare/internal/core/domain"
	"roadcare/internal/core/session"
)

// IssueAPI is the part of the backend client the issue workflows use
type IssueAPI interface {
	ListIssues(ctx context.Context) ([]domain.Issue, error)
	GetIssue(ctx context.Context, id string) (*domain.Issue, error)
	ListIssuesByUser(ctx context.Context, userID string) ([]domain.Issue, error)
	ListIssuesByStatus(ctx context.Context, status domain.IssueStatus) ([]domain.Issue, error)
	CreateIssue(ctx context.Context, req domain.IssueRequest) (*domain.Issue, error)
	UpdateIssue(ctx context.Context, id string, req domain.IssueRequest) error
	UpdateIssueStatus(ctx context.Context, id string, status domain.IssueStatus) error
	DeleteIssue(ctx context.Context, id string) error

	ListResponses(ctx context.Context, issueID string) ([]domain.Response, error)
	CreateResponse(ctx context.Context, req domain.ResponseRequest) (*domain.Response, error)
	UpdateResponse(ctx context.Context, id string, req domain.ResponseRequest) error
	DeleteResponse(ctx context.Context, id string) error
}

// SessionManager is the session store as the services see it
type SessionManager interface {
	session.Viewer
	Login(ctx context.Context, req domain.LoginRequest) error
	Register(ctx context.Context, req domain.RegisterRequest) error
	Logout(ctx context.Context)
}

// ExpiredCredentialPurger removes persisted credentials past their expiry
type ExpiredCredentialPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Compile-time check
var _ SessionManager = (*session.Store)(nil)
