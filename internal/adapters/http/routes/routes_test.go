package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roadcare/internal/adapters/http/middleware"
	"roadcare/internal/adapters/persistence/repositories"
	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/apiclient"
	"roadcare/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "roadcare_sid"

// fakeBackend is a stand-in for the RoadCare REST API
type fakeBackend struct {
	revoked atomic.Bool

	mu         sync.Mutex
	signedOut  []string
	authHeader []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	b := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "Passw0rd!" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}

		id, role, name := "u-1", domain.RoleUser, "citizen"
		if strings.HasPrefix(req.Email, "admin") {
			id, role, name = "a-1", domain.RoleAdmin, "dispatcher"
		}
		token, err := jwt.GenerateAccessToken(id, req.Email, string(role), name, "backend-secret", time.Now().Add(time.Hour))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, domain.AuthResult{
			ID: id, Email: req.Email, Role: role, UserName: name, AccessToken: token, DurationInMinutes: 60,
		})
	})

	mux.HandleFunc("POST /api/auth/sign-out/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.signedOut = append(b.signedOut, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/roadsurfaceissue", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, backendIssues())
	}))

	mux.HandleFunc("GET /api/roadsurfaceissue/user/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Issue
		for _, issue := range backendIssues() {
			if issue.ReportedByUserID == r.PathValue("id") {
				out = append(out, issue)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))

	mux.HandleFunc("GET /api/roadsurfaceissue/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		for _, issue := range backendIssues() {
			if issue.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, issue)
				return
			}
		}
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"Not Found","detail":"Issue not found"}`))
	}))

	mux.HandleFunc("GET /api/publicutility/issue/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	mux.HandleFunc("POST /api/roadsurfaceissue", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var req domain.IssueRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, domain.Issue{
			ID: "9", Description: req.Description, Location: req.Location,
			ReportedByUserID: req.ReportedByUserID, Status: domain.StatusReported,
		})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		b.mu.Lock()
		b.authHeader = append(b.authHeader, header)
		b.mu.Unlock()

		if b.revoked.Load() || !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token revoked"})
			return
		}
		next(w, r)
	}
}

func backendIssues() []domain.Issue {
	return []domain.Issue{
		{ID: "1", Description: "Deep pothole near the crossing", Location: "Sovetskaya 12", Status: domain.StatusReported, ReportedByUserID: "u-1"},
		{ID: "2", Description: "Cracked asphalt", Location: "Pobedy Ave 3", Status: domain.StatusInProgress, ReportedByUserID: "u-2"},
		{ID: "3", Description: "Pothole after the rain", Location: "Lenina 7", Status: domain.StatusReported, ReportedByUserID: "u-3"},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// browser drives the portal the way one browser would, keeping its cookie
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Redirect string          `json:"redirect"`
}

func (b *browser) do(method, path string, body any) (int, envelope) {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			b.cookie = c
		}
	}

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(b.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (b *browser) data(env envelope, v any) {
	b.t.Helper()
	require.NoError(b.t, json.Unmarshal(env.Data, v))
}

func newPortal(t *testing.T) (*fakeBackend, *fiber.App) {
	backend, srv := newFakeBackend(t)

	cfg := &config.Config{
		AppMode: "dev",
		API:     config.APIConfig{BaseURL: srv.URL + "/api"},
		Cookie:  config.CookieConfig{Name: cookieName, SameSite: "lax", MaxAge: 3600},
		Credential: config.CredentialConfig{
			Backend: config.BackendMemory,
		},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, Dependencies{
		Config:      cfg,
		Client:      apiclient.New(cfg.API.BaseURL),
		Credentials: repositories.NewMemoryCredentialRepository(),
		Assistant:   services.NewAssistantService(config.AssistantConfig{}),
	})
	return backend, app
}

func TestPortal_SessionLifecycle(t *testing.T) {
	backend, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, env := b.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, b.cookie, "session cookie should be issued")
	var me services.Me
	b.data(env, &me)
	assert.Equal(t, "unauthenticated", me.State.String())

	status, env = b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "citizen@example.by", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, status, env.Error)
	var payload struct {
		Session  domain.Session `json:"session"`
		Redirect string         `json:"redirect"`
	}
	b.data(env, &payload)
	assert.Equal(t, "/", payload.Redirect)
	assert.Equal(t, "u-1", payload.Session.ID)
	assert.Equal(t, "citizen", payload.Session.FirstName)
	assert.Empty(t, payload.Session.LastName)

	// A later request rebuilds the session from the stored credential
	status, env = b.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	b.data(env, &me)
	assert.Equal(t, "authenticated", me.State.String())
	assert.False(t, me.IsAdmin)

	status, env = b.do(http.MethodGet, "/api/issues/mine", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var mine []domain.Issue
	b.data(env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "1", mine[0].ID)
	assert.True(t, strings.HasPrefix(backend.authHeader[len(backend.authHeader)-1], "Bearer ey"))

	status, env = b.do(http.MethodGet, "/api/admin/issues", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied", env.Error)
	assert.Equal(t, "/", env.Redirect)

	status, env = b.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	b.data(env, &payload)
	assert.Equal(t, "/login", payload.Redirect)
	assert.Equal(t, []string{"u-1"}, backend.signedOut)

	status, env = b.do(http.MethodGet, "/api/issues/mine", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", env.Redirect)
}

func TestPortal_GuardWithoutSession(t *testing.T) {
	_, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, env := b.do(http.MethodGet, "/api/issues/mine", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", env.Redirect)

	status, env = b.do(http.MethodGet, "/api/admin/issues", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", env.Redirect)
}

func TestPortal_LoginFailureKeepsSessionAbsent(t *testing.T) {
	_, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, env := b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "citizen@example.by", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Error)

	status, env = b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "nope", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Invalid email address")

	_, env = b.do(http.MethodGet, "/api/auth/me", nil)
	var me services.Me
	b.data(env, &me)
	assert.Equal(t, "unauthenticated", me.State.String())
}

func TestPortal_RejectedCredentialEndsSession(t *testing.T) {
	backend, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, _ := b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "admin@roadcare.by", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, status)

	backend.revoked.Store(true)
	status, env := b.do(http.MethodGet, "/api/admin/issues", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrSessionExpired.Error(), env.Error)
	assert.Equal(t, "/login", env.Redirect)

	backend.revoked.Store(false)
	_, env = b.do(http.MethodGet, "/api/auth/me", nil)
	var me services.Me
	b.data(env, &me)
	assert.Equal(t, "unauthenticated", me.State.String())
}

func TestPortal_AdminDashboard(t *testing.T) {
	_, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, _ := b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "admin@roadcare.by", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, status)

	status, env := b.do(http.MethodGet, "/api/admin/issues?status=Reported&search=POTHOLE&limit=1", nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	var page services.DashboardPage
	b.data(env, &page)
	require.Len(t, page.Issues, 1)
	assert.Equal(t, "1", page.Issues[0].ID)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	status, env = b.do(http.MethodGet, "/api/admin/issues?status=Closed", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidStatus.Error(), env.Error)
}

func TestPortal_IssueDetailAndReport(t *testing.T) {
	_, app := newPortal(t)
	b := &browser{t: t, app: app}

	status, _ := b.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "citizen@example.by", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, status)

	// Responses fail upstream; the issue still loads
	status, env := b.do(http.MethodGet, "/api/issues/2", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var issue domain.Issue
	b.data(env, &issue)
	assert.Equal(t, "2", issue.ID)
	assert.Empty(t, issue.Responses)

	status, env = b.do(http.MethodGet, "/api/issues/404", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Issue not found", env.Error)

	status, env = b.do(http.MethodPost, "/api/issues", services.ReportIssueInput{Location: "abc", Description: "short"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, env = b.do(http.MethodPost, "/api/issues", services.ReportIssueInput{
		Location:    "Kirova 40",
		Description: "Sunken manhole cover in the left lane",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	b.data(env, &issue)
	assert.Equal(t, "u-1", issue.ReportedByUserID)

	status, env = b.do(http.MethodPost, "/api/assist/description", domain.SuggestionRequest{Location: "Kirova 40", BriefInput: "sunken manhole"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, domain.ErrAssistantDisabled.Error(), env.Error)
}

func TestPortal_BrowsersAreIsolated(t *testing.T) {
	_, app := newPortal(t)
	alice := &browser{t: t, app: app}
	bob := &browser{t: t, app: app}

	status, _ := alice.do(http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "citizen@example.by", Password: "Passw0rd!"})
	require.Equal(t, http.StatusOK, status)

	_, env := bob.do(http.MethodGet, "/api/auth/me", nil)
	var me services.Me
	bob.data(env, &me)
	assert.Equal(t, "unauthenticated", me.State.String())
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}
