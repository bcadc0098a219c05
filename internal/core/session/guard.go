package session

import (
	"slices"

	"roadcare/internal/core/domain"
)

// Decision is the outcome of evaluating a Guard
type Decision int

const (
	// Pending: the session is still loading; show a placeholder
	Pending Decision = iota
	// Granted: render the guarded content
	Granted
	// RedirectLogin: no session; send the user to the login view
	RedirectLogin
	// RedirectLanding: signed in but the role is not allowed
	RedirectLanding
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Granted:
		return "granted"
	case RedirectLogin:
		return "redirect-login"
	case RedirectLanding:
		return "redirect-landing"
	default:
		return "unknown"
	}
}

// RedirectPath returns where a redirecting decision points, or "" otherwise
func (d Decision) RedirectPath() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectLanding:
		return LandingPath
	default:
		return ""
	}
}

// Viewer is the read side of a session store
type Viewer interface {
	State() State
	Session() *domain.Session
	IsAuthenticated() bool
}

// Guard gates a view behind authentication and, optionally, a role set
type Guard struct {
	AllowedRoles []domain.Role
}

// NewGuard creates a guard. No roles means any signed-in user passes.
func NewGuard(allowedRoles ...domain.Role) Guard {
	return Guard{AllowedRoles: allowedRoles}
}

// Evaluate decides what to render for the viewer's current session
func (g Guard) Evaluate(v Viewer) Decision {
	switch v.State() {
	case StateLoading:
		return Pending
	case StateUnauthenticated:
		return RedirectLogin
	}

	if !v.IsAuthenticated() {
		return RedirectLogin
	}

	if len(g.AllowedRoles) == 0 {
		return Granted
	}

	sess := v.Session()
	if sess == nil || !slices.Contains(g.AllowedRoles, sess.Role) {
		return RedirectLanding
	}
	return Granted
}
