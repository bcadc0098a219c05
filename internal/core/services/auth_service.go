package services

import (
	"context"
	"log"

	"roadcare/internal/core/domain"
	"roadcare/internal/core/session"
	"roadcare/internal/pkg/validation"
)

// AuthService validates sign-in and sign-up input before handing it to the
// session store
type AuthService struct {
	store SessionManager
}

// NewAuthService creates a new auth service
func NewAuthService(store SessionManager) *AuthService {
	return &AuthService{store: store}
}

// Me describes who is using the application right now
type Me struct {
	State   session.State   `json:"state"`
	Session *domain.Session `json:"session,omitempty"`
	IsAdmin bool            `json:"isAdmin"`
}

// Login validates the credentials and signs in
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return s.store.Login(ctx, req)
}

// Register validates the profile and creates the account
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return s.store.Register(ctx, req)
}

// Logout signs out. It never fails.
func (s *AuthService) Logout(ctx context.Context) {
	s.store.Logout(ctx)
	log.Println("✅ Signed out")
}

// Me returns the current tri-state and session
func (s *AuthService) Me() Me {
	sess := s.store.Session()
	return Me{
		State:   s.store.State(),
		Session: sess,
		IsAdmin: sess.IsAdmin(),
	}
}
