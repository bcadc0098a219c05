package services

import (
	"context"

	"roadcare/internal/core/domain"
	"roadcare/internal/core/session"
)

type fakeSession struct {
	sess     *domain.Session
	logouts  int
	loginErr error
	logins   []domain.LoginRequest
	regs     []domain.RegisterRequest
}

func signedIn(role domain.Role) *fakeSession {
	return &fakeSession{sess: domain.NewSession("u-1", "citizen@example.by", role, "citizen")}
}

func (f *fakeSession) State() session.State {
	if f.sess == nil {
		return session.StateUnauthenticated
	}
	return session.StateAuthenticated
}

func (f *fakeSession) Session() *domain.Session {
	if f.sess == nil {
		return nil
	}
	cp := *f.sess
	return &cp
}

func (f *fakeSession) IsAuthenticated() bool { return f.sess != nil }

func (f *fakeSession) Login(_ context.Context, req domain.LoginRequest) error {
	f.logins = append(f.logins, req)
	return f.loginErr
}

func (f *fakeSession) Register(_ context.Context, req domain.RegisterRequest) error {
	f.regs = append(f.regs, req)
	return nil
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.sess = nil
}

// fakeAPI answers from canned data and fails with err when it is set
type fakeAPI struct {
	err          error
	responsesErr error

	issues    []domain.Issue
	responses []domain.Response

	created       []domain.IssueRequest
	updated       map[string]domain.IssueRequest
	statusChanges map[string]domain.IssueStatus
	deleted       []string
	byUser        []string
	respCreated   []domain.ResponseRequest
	respUpdated   map[string]domain.ResponseRequest
	respDeleted   []string
}

func newFakeAPI(issues ...domain.Issue) *fakeAPI {
	return &fakeAPI{
		issues:        issues,
		updated:       map[string]domain.IssueRequest{},
		statusChanges: map[string]domain.IssueStatus{},
		respUpdated:   map[string]domain.ResponseRequest{},
	}
}

func (f *fakeAPI) ListIssues(context.Context) ([]domain.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.issues, nil
}

func (f *fakeAPI) GetIssue(_ context.Context, id string) (*domain.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, issue := range f.issues {
		if issue.ID == id {
			cp := issue
			return &cp, nil
		}
	}
	return nil, domain.ErrIssueNotFound
}

func (f *fakeAPI) ListIssuesByUser(_ context.Context, userID string) ([]domain.Issue, error) {
	f.byUser = append(f.byUser, userID)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Issue
	for _, issue := range f.issues {
		if issue.ReportedByUserID == userID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (f *fakeAPI) ListIssuesByStatus(_ context.Context, status domain.IssueStatus) ([]domain.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return FilterIssues(f.issues, status, ""), nil
}

func (f *fakeAPI) CreateIssue(_ context.Context, req domain.IssueRequest) (*domain.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &domain.Issue{
		ID:               "new-1",
		Description:      req.Description,
		Location:         req.Location,
		ReportedByUserID: req.ReportedByUserID,
		Status:           domain.StatusReported,
	}, nil
}

func (f *fakeAPI) UpdateIssue(_ context.Context, id string, req domain.IssueRequest) error {
	if f.err != nil {
		return f.err
	}
	f.updated[id] = req
	return nil
}

func (f *fakeAPI) UpdateIssueStatus(_ context.Context, id string, status domain.IssueStatus) error {
	if f.err != nil {
		return f.err
	}
	f.statusChanges[id] = status
	return nil
}

func (f *fakeAPI) DeleteIssue(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ListResponses(context.Context, string) ([]domain.Response, error) {
	if f.responsesErr != nil {
		return nil, f.responsesErr
	}
	return f.responses, nil
}

func (f *fakeAPI) CreateResponse(_ context.Context, req domain.ResponseRequest) (*domain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.respCreated = append(f.respCreated, req)
	return &domain.Response{ID: "r-new", Comment: req.Comment, RoadSurfaceIssueID: req.RoadSurfaceIssueID}, nil
}

func (f *fakeAPI) UpdateResponse(_ context.Context, id string, req domain.ResponseRequest) error {
	if f.err != nil {
		return f.err
	}
	f.respUpdated[id] = req
	return nil
}

func (f *fakeAPI) DeleteResponse(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.respDeleted = append(f.respDeleted, id)
	return nil
}

var _ IssueAPI = (*fakeAPI)(nil)
