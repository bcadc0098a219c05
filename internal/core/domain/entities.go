package domain

// Role represents the capability tag carried by a credential
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IssueStatus is the closed three-value status of a road-surface issue.
// Any value may move to any other; the client enforces no transitions.
type IssueStatus string

const (
	StatusReported   IssueStatus = "Reported"
	StatusInProgress IssueStatus = "InProgress"
	StatusResolved   IssueStatus = "Resolved"
)

// AllStatuses lists every status in display order
var AllStatuses = []IssueStatus{StatusReported, StatusInProgress, StatusResolved}

// ParseIssueStatus validates a raw status string
func ParseIssueStatus(s string) (IssueStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// Session is the in-memory projection of the current credential.
// FirstName, LastName and Address are not carried by the credential:
// FirstName repeats UserName and the other two stay empty.
type Session struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

// IsAdmin reports whether the session carries the Admin role
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// NewSession builds a session with the placeholder profile fields filled in
func NewSession(id, email string, role Role, userName string) *Session {
	return &Session{
		ID:        id,
		Email:     email,
		Role:      role,
		UserName:  userName,
		FirstName: userName,
		LastName:  "",
		Address:   "",
	}
}

// AuthResult is returned by the backend on login and registration
type AuthResult struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	UserName          string `json:"userName"`
	AccessToken       string `json:"accessToken"`
	DurationInMinutes int    `json:"durationInMinutes"`
}

// AppUser is the user shape the backend may embed in an issue
type AppUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Issue is a reported road-surface defect, owned by the backend
type Issue struct {
	ID               string      `json:"id"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	ReportedDate     string      `json:"reportedDate"`
	Status           IssueStatus `json:"status"`
	ReportedByUserID string      `json:"reportedByUserId"`
	ReportedByUser   *AppUser    `json:"reportedByUser,omitempty"`
	Responses        []Response  `json:"responses,omitempty"`
}

// Response is an official utility reply attached to an issue
type Response struct {
	ID                 string `json:"id"`
	Comment            string `json:"comment"`
	ResponseDate       string `json:"responseDate"`
	RoadSurfaceIssueID string `json:"roadSurfaceIssueId"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	UserName        string `json:"userName" validate:"required,min=3,max=50,username"`
	Address         string `json:"address" validate:"required,max=250"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// IssueRequest is the create/update payload for an issue
type IssueRequest struct {
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	ReportedByUserID string      `json:"reportedByUserId"`
	Status           IssueStatus `json:"status,omitempty"`
}

// ResponseRequest is the create/update payload for a response
type ResponseRequest struct {
	Comment            string `json:"comment"`
	RoadSurfaceIssueID string `json:"roadSurfaceIssueId"`
}

// SuggestionRequest is the input of the description assistant
type SuggestionRequest struct {
	Location   string `json:"location" validate:"required"`
	BriefInput string `json:"briefInput" validate:"required"`
}

// Suggestion is the output of the description assistant
type Suggestion struct {
	SuggestedDescription string `json:"suggestedDescription"`
}
