// Package session owns the answer to "who is using the application right
// now". A Store is built over one persisted credential, bootstrapped with
// Initialize and then mutated only by Login, Register and Logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/jwt"
)

// Navigation targets signalled by the store
const (
	LandingPath = "/"
	LoginPath   = "/login"
)

// State is the tri-state every consumer must branch on before rendering
// anything role-sensitive
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON payloads
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StateLoading
	case "unauthenticated":
		*s = StateUnauthenticated
	case "authenticated":
		*s = StateAuthenticated
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

// CredentialStore persists the raw credential under one fixed key
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// Authenticator is the backend collaborator that issues and revokes credentials
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error)
	SignOut(ctx context.Context, userID string) error
}

// Navigator receives the view the store wants the user moved to
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Store holds the current session and credential
type Store struct {
	credentials CredentialStore
	auth        Authenticator
	nav         Navigator
	now         func() time.Time

	mu      sync.RWMutex
	state   State
	session *domain.Session
	token   string
}

// Option configures a Store
type Option func(*Store)

// WithNavigator sets the navigation sink
func WithNavigator(nav Navigator) Option {
	return func(s *Store) {
		s.nav = nav
	}
}

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store in the loading state
func NewStore(credentials CredentialStore, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		credentials: credentials,
		auth:        auth,
		nav:         NavigatorFunc(func(string) {}),
		now:         time.Now,
		state:       StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize reads the persisted credential and derives the session from it.
// Unreadable, undecodable and expired credentials all end in the
// unauthenticated state; the bad credential is purged.
func (s *Store) Initialize(ctx context.Context) {
	token, err := s.credentials.Get(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to read stored credential: %v", err)
		s.clear()
		return
	}

	if token == "" {
		s.clear()
		return
	}

	claims, err := jwt.Decode(token, s.now())
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			log.Printf("⚠️ Failed to decode stored credential: %v", err)
		}
		if rmErr := s.credentials.Remove(ctx); rmErr != nil {
			log.Printf("⚠️ Failed to purge stored credential: %v", rmErr)
		}
		s.clear()
		return
	}

	sess := domain.NewSession(claims.NameID, claims.Email, domain.Role(claims.Role), claims.UniqueName)

	s.mu.Lock()
	s.session = sess
	s.token = token
	s.state = StateAuthenticated
	s.mu.Unlock()
}

// Login authenticates against the backend. A failure is returned untouched
// and leaves the session as it was.
func (s *Store) Login(ctx context.Context, req domain.LoginRequest) error {
	result, err := s.auth.Login(ctx, req)
	if err != nil {
		log.Printf("❌ Login failed: %v", err)
		return err
	}
	return s.accept(ctx, result)
}

// Register creates an account and signs in with the returned credential
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) error {
	result, err := s.auth.Register(ctx, req)
	if err != nil {
		log.Printf("❌ Registration failed: %v", err)
		return err
	}
	return s.accept(ctx, result)
}

// Logout signs out on a best-effort basis, then always clears the
// persisted credential and the session
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()

	if sess != nil {
		if err := s.auth.SignOut(ctx, sess.ID); err != nil {
			log.Printf("⚠️ Sign out call failed, continuing logout: %v", err)
		}
	}

	if err := s.credentials.Remove(ctx); err != nil {
		log.Printf("⚠️ Failed to remove stored credential: %v", err)
	}

	s.clear()
	s.nav.Navigate(LoginPath)
}

// State returns the current tri-state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns a copy of the current session, or nil when absent
func (s *Store) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Token returns the credential held in memory
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a session and a credential are both held
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.token != ""
}

// IsAdmin reports whether the session carries the Admin role
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

func (s *Store) accept(ctx context.Context, result *domain.AuthResult) error {
	if err := s.credentials.Set(ctx, result.AccessToken); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	sess := domain.NewSession(result.ID, result.Email, result.Role, result.UserName)

	s.mu.Lock()
	s.session = sess
	s.token = result.AccessToken
	s.state = StateAuthenticated
	s.mu.Unlock()

	log.Printf("✅ Signed in: %s (%s)", sess.UserName, sess.Role)
	s.nav.Navigate(LandingPath)
	return nil
}

func (s *Store) clear() {
	s.mu.Lock()
	s.session = nil
	s.token = ""
	s.state = StateUnauthenticated
	s.mu.Unlock()
}
