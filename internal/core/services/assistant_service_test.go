package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadcare/internal/config"
	"roadcare/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAssistant(url string) *AssistantService {
	return NewAssistantService(config.AssistantConfig{
		BaseURL: url + "/v1",
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func TestAssistantService_Suggest(t *testing.T) {
	var seen map[string]any
	srv := completionServer(t, http.StatusOK, "  Suggested Description: A deep pothole spans the right lane.  ", &seen)
	svc := newTestAssistant(srv.URL)
	require.True(t, svc.Enabled())

	got, err := svc.Suggest(context.Background(), domain.SuggestionRequest{
		Location:   "Sovetskaya 12",
		BriefInput: "big hole",
	})
	require.NoError(t, err)
	assert.Equal(t, "A deep pothole spans the right lane.", got.SuggestedDescription)

	assert.Equal(t, "test-model", seen["model"])
	messages, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	assert.Contains(t, user["content"], "Location: Sovetskaya 12")
	assert.Contains(t, user["content"], "Brief Input: big hole")
}

func TestAssistantService_RequiresBothInputs(t *testing.T) {
	svc := newTestAssistant("http://127.0.0.1:0")

	_, err := svc.Suggest(context.Background(), domain.SuggestionRequest{Location: "Sovetskaya 12"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Suggest(context.Background(), domain.SuggestionRequest{BriefInput: "big hole"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssistantService_Disabled(t *testing.T) {
	svc := NewAssistantService(config.AssistantConfig{Model: "gpt-4o-mini"})
	assert.False(t, svc.Enabled())

	_, err := svc.Suggest(context.Background(), domain.SuggestionRequest{Location: "Kirova 40", BriefInput: "crack"})
	assert.ErrorIs(t, err, domain.ErrAssistantDisabled)
}

func TestAssistantService_Failures(t *testing.T) {
	req := domain.SuggestionRequest{Location: "Kirova 40", BriefInput: "crack"}

	srv := completionServer(t, http.StatusOK, "   ", nil)
	_, err := newTestAssistant(srv.URL).Suggest(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrAssistantNoContent)

	srv = completionServer(t, http.StatusInternalServerError, "", nil)
	_, err = newTestAssistant(srv.URL).Suggest(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate description")
}
