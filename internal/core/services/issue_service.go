package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/apiclient"
	"roadcare/internal/pkg/pagination"
	"roadcare/internal/pkg/validation"
)

// StatusAll disables the dashboard status filter
const StatusAll = "all"

// IssueService runs the issue and response workflows on behalf of one session.
// A credential the backend rejects ends that session.
type IssueService struct {
	api   IssueAPI
	store SessionManager
}

// NewIssueService creates a new issue service
func NewIssueService(api IssueAPI, store SessionManager) *IssueService {
	return &IssueService{api: api, store: store}
}

// ReportIssueInput is what a citizen fills in to report a defect.
// BriefInput only feeds the description assistant and is not sent.
type ReportIssueInput struct {
	Location    string `json:"location" validate:"min=5,max=200"`
	Description string `json:"description" validate:"min=10,max=500"`
	BriefInput  string `json:"briefInput,omitempty" validate:"omitempty,min=10,max=150"`
}

// UpdateIssueInput edits an existing issue. An empty Status keeps the current one.
type UpdateIssueInput struct {
	Location    string `json:"location" validate:"min=5,max=200"`
	Description string `json:"description" validate:"min=10,max=500"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=Reported InProgress Resolved"`
}

// DashboardQuery selects a page of the admin dashboard
type DashboardQuery struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// DashboardPage is one filtered page of all issues
type DashboardPage struct {
	Issues []domain.Issue   `json:"issues"`
	Meta   *pagination.Meta `json:"meta"`
}

type commentInput struct {
	Comment string `json:"comment" validate:"required"`
}

// List returns every issue
func (s *IssueService) List(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.api.ListIssues(ctx)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return issues, nil
}

// ListByStatus returns the issues in one status
func (s *IssueService) ListByStatus(ctx context.Context, raw string) ([]domain.Issue, error) {
	status, err := domain.ParseIssueStatus(raw)
	if err != nil {
		return nil, err
	}
	issues, err := s.api.ListIssuesByStatus(ctx, status)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return issues, nil
}

// Mine returns the issues reported by the signed-in user
func (s *IssueService) Mine(ctx context.Context) ([]domain.Issue, error) {
	sess := s.store.Session()
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	issues, err := s.api.ListIssuesByUser(ctx, sess.ID)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return issues, nil
}

// Dashboard filters all issues by status and search term, then paginates
func (s *IssueService) Dashboard(ctx context.Context, q DashboardQuery) (*DashboardPage, error) {
	var status domain.IssueStatus
	if q.Status != "" && q.Status != StatusAll {
		parsed, err := domain.ParseIssueStatus(q.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	issues, err := s.api.ListIssues(ctx)
	if err != nil {
		return nil, s.check(ctx, err)
	}

	filtered := FilterIssues(issues, status, q.Search)
	params := pagination.NewParams(q.Page, q.Limit)

	return &DashboardPage{
		Issues: pagination.Slice(filtered, params),
		Meta:   pagination.GetMeta(params, int64(len(filtered))),
	}, nil
}

// FilterIssues keeps issues in status (any when empty) whose description or
// location contains search, case-insensitively
func FilterIssues(issues []domain.Issue, status domain.IssueStatus, search string) []domain.Issue {
	term := strings.ToLower(search)
	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if status != "" && issue.Status != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(issue.Description), term) &&
			!strings.Contains(strings.ToLower(issue.Location), term) {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// Detail returns an issue with its responses. Failing to load the responses
// is not fatal: the issue comes back with none.
func (s *IssueService) Detail(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.api.GetIssue(ctx, id)
	if err != nil {
		return nil, s.check(ctx, err)
	}

	responses, err := s.api.ListResponses(ctx, id)
	if err != nil {
		log.Printf("⚠️ Failed to load responses for issue %s: %v", id, err)
		responses = []domain.Response{}
	}
	if responses == nil {
		responses = []domain.Response{}
	}
	issue.Responses = responses
	return issue, nil
}

// Report files a new issue as the signed-in user
func (s *IssueService) Report(ctx context.Context, in ReportIssueInput) (*domain.Issue, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	sess := s.store.Session()
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	issue, err := s.api.CreateIssue(ctx, domain.IssueRequest{
		Description:      in.Description,
		Location:         in.Location,
		ReportedByUserID: sess.ID,
	})
	if err != nil {
		return nil, s.check(ctx, err)
	}

	log.Printf("✅ Issue reported by %s at %s", sess.UserName, in.Location)
	return issue, nil
}

// Update rewrites an issue, keeping its reporter
func (s *IssueService) Update(ctx context.Context, id string, in UpdateIssueInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	current, err := s.api.GetIssue(ctx, id)
	if err != nil {
		return s.check(ctx, err)
	}

	status := current.Status
	if in.Status != "" {
		status = domain.IssueStatus(in.Status)
	}

	err = s.api.UpdateIssue(ctx, id, domain.IssueRequest{
		Description:      in.Description,
		Location:         in.Location,
		ReportedByUserID: current.ReportedByUserID,
		Status:           status,
	})
	return s.check(ctx, err)
}

// ChangeStatus moves an issue to any of the three statuses
func (s *IssueService) ChangeStatus(ctx context.Context, id, raw string) error {
	status, err := domain.ParseIssueStatus(raw)
	if err != nil {
		return err
	}
	if err := s.api.UpdateIssueStatus(ctx, id, status); err != nil {
		return s.check(ctx, err)
	}
	log.Printf("✅ Issue %s moved to %s", id, status)
	return nil
}

// Delete removes an issue
func (s *IssueService) Delete(ctx context.Context, id string) error {
	return s.check(ctx, s.api.DeleteIssue(ctx, id))
}

// Responses lists the official responses to an issue
func (s *IssueService) Responses(ctx context.Context, issueID string) ([]domain.Response, error) {
	responses, err := s.api.ListResponses(ctx, issueID)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return responses, nil
}

// Respond attaches an official response to an issue
func (s *IssueService) Respond(ctx context.Context, issueID, comment string) (*domain.Response, error) {
	if err := validation.Struct(commentInput{Comment: strings.TrimSpace(comment)}); err != nil {
		return nil, err
	}

	resp, err := s.api.CreateResponse(ctx, domain.ResponseRequest{
		Comment:            comment,
		RoadSurfaceIssueID: issueID,
	})
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return resp, nil
}

// EditResponse replaces the comment of a response
func (s *IssueService) EditResponse(ctx context.Context, id, issueID, comment string) error {
	if err := validation.Struct(commentInput{Comment: strings.TrimSpace(comment)}); err != nil {
		return err
	}

	err := s.api.UpdateResponse(ctx, id, domain.ResponseRequest{
		Comment:            comment,
		RoadSurfaceIssueID: issueID,
	})
	return s.check(ctx, err)
}

// DeleteResponse removes a response
func (s *IssueService) DeleteResponse(ctx context.Context, id string) error {
	return s.check(ctx, s.api.DeleteResponse(ctx, id))
}

// check ends the session when the backend rejected the credential
func (s *IssueService) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if apiclient.IsAuthError(err) {
		log.Printf("⚠️ Backend rejected the credential, signing out: %v", err)
		s.store.Logout(ctx)
		return fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	return err
}
