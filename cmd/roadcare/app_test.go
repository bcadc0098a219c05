package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	revoked atomic.Bool

	mu        sync.Mutex
	signedOut []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	b := &backend{}
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
		writeJSON(w, http.StatusOK, sampleIssues())
	}))

	mux.HandleFunc("GET /api/roadsurfaceissue/user/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Issue
		for _, issue := range sampleIssues() {
			if issue.ReportedByUserID == r.PathValue("id") {
				out = append(out, issue)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.revoked.Load() || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token revoked"})
			return
		}
		next(w, r)
	}
}

func sampleIssues() []domain.Issue {
	return []domain.Issue{
		{ID: "1", Description: "Deep pothole near the crossing", Location: "Sovetskaya 12", Status: domain.StatusReported, ReportedByUserID: "u-1", ReportedDate: "2024-05-01T10:00:00"},
		{ID: "2", Description: "Cracked asphalt", Location: "Pobedy Ave 3", Status: domain.StatusInProgress, ReportedByUserID: "u-2"},
		{ID: "3", Description: "Pothole after the rain", Location: "Lenina 7", Status: domain.StatusReported, ReportedByUserID: "u-3"},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness runs commands against one backend and one credential file
type harness struct {
	t              *testing.T
	apiURL         string
	credentialFile string
	passwordFile   string
}

func newHarness(t *testing.T, srv *httptest.Server) *harness {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("CREDENTIAL_BACKEND", "")
	t.Setenv("ASSISTANT_API_KEY", "")
	t.Setenv("ASSISTANT_BASE_URL", "")

	dir := t.TempDir()
	passwordFile := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("Passw0rd!\n"), 0600))

	return &harness{
		t:              t,
		apiURL:         srv.URL + "/api",
		credentialFile: filepath.Join(dir, "roadcare", "credential.json"),
		passwordFile:   passwordFile,
	}
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := rootCmd(strings.NewReader(""), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--api-url", h.apiURL, "--credential-file", h.credentialFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) login(email string) {
	out, err := h.run("login", "--email", email, "--password-file", h.passwordFile)
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Logged in as")
}

func TestCLI_SessionLifecycle(t *testing.T) {
	b, srv := newBackend(t)
	h := newHarness(t, srv)

	_, err := h.run("whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = h.run("issues", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)

	h.login("citizen@example.com")

	_, err = os.Stat(h.credentialFile)
	require.NoError(t, err, "credential should be persisted")

	out, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "citizen@example.com")
	assert.Contains(t, out, "User")

	out, err = h.run("issues", "list", "--mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Sovetskaya 12")
	assert.Contains(t, out, "2024-05-01")
	assert.NotContains(t, out, "Pobedy Ave 3")

	_, err = h.run("admin", "dashboard")
	assert.ErrorIs(t, err, errAccessDenied)

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = os.Stat(h.credentialFile)
	assert.True(t, os.IsNotExist(err), "credential should be removed")

	b.mu.Lock()
	assert.Equal(t, []string{"u-1"}, b.signedOut)
	b.mu.Unlock()

	_, err = h.run("issues", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLI_AdminDashboard(t *testing.T) {
	_, srv := newBackend(t)
	h := newHarness(t, srv)
	h.login("admin@example.com")

	out, err := h.run("admin", "dashboard", "--status", "Reported", "--search", "pothole")
	require.NoError(t, err)
	assert.Contains(t, out, "Sovetskaya 12")
	assert.Contains(t, out, "Lenina 7")
	assert.NotContains(t, out, "Pobedy Ave 3")
	assert.Contains(t, out, "Page 1 of 1 (2 issues)")

	out, err = h.run("--json", "whoami")
	require.NoError(t, err)

	var me struct {
		State   string `json:"state"`
		IsAdmin bool   `json:"isAdmin"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, "authenticated", me.State)
	assert.True(t, me.IsAdmin)
}

func TestCLI_RejectedCredentialLogsOut(t *testing.T) {
	b, srv := newBackend(t)
	h := newHarness(t, srv)
	h.login("citizen@example.com")

	b.revoked.Store(true)

	_, err := h.run("issues", "list")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	_, err = os.Stat(h.credentialFile)
	assert.True(t, os.IsNotExist(err), "rejected credential should be purged")

	_, err = h.run("whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLI_LoginFailures(t *testing.T) {
	_, srv := newBackend(t)
	h := newHarness(t, srv)

	wrong := filepath.Join(t.TempDir(), "wrong")
	require.NoError(t, os.WriteFile(wrong, []byte("nope"), 0600))

	_, err := h.run("login", "--email", "citizen@example.com", "--password-file", wrong)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	_, err = h.run("login", "--email", "not-an-email", "--password-file", h.passwordFile)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.run("login", "--email", "citizen@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password-file")

	_, err = os.Stat(h.credentialFile)
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_SuggestDisabled(t *testing.T) {
	_, srv := newBackend(t)
	h := newHarness(t, srv)
	h.login("citizen@example.com")

	_, err := h.run("suggest", "--location", "Sovetskaya 12", "--brief", "big hole in the road")
	assert.ErrorIs(t, err, domain.ErrAssistantDisabled)
}

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	printIssues(&buf, nil)
	assert.Equal(t, "No issues found\n", buf.String())

	buf.Reset()
	printIssues(&buf, sampleIssues()[:1])
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Reported")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ямка…", truncate("ямка на дороге", 5))
}

func TestReportedDay(t *testing.T) {
	assert.Equal(t, "2024-05-01", reportedDay("2024-05-01T10:00:00"))
	assert.Equal(t, "", reportedDay(""))
}
