package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/validation"

	openai "github.com/sashabaranov/go-openai"
)

const assistantSystemPrompt = "You are an AI assistant helping users to report road surface issues to the Gomel Public Utilities."

const assistantUserPrompt = `Based on the user's location and a brief input, generate a more detailed and accurate description of the issue.

Location: %s
Brief Input: %s

Suggested Description:`

// AssistantService drafts a detailed issue description from a short note
// through any OpenAI-compatible chat completions endpoint
type AssistantService struct {
	client *openai.Client
	model  string
}

// NewAssistantService creates the assistant. It stays disabled when no
// endpoint is configured.
func NewAssistantService(cfg config.AssistantConfig) *AssistantService {
	if !cfg.Enabled() {
		log.Println("⚠️ Description assistant disabled (no ASSISTANT_API_KEY or ASSISTANT_BASE_URL)")
		return &AssistantService{model: cfg.Model}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &AssistantService{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Enabled reports whether suggestions can be requested
func (s *AssistantService) Enabled() bool {
	return s.client != nil
}

// Suggest drafts a description for the issue at req.Location
func (s *AssistantService) Suggest(ctx context.Context, req domain.SuggestionRequest) (*domain.Suggestion, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !s.Enabled() {
		return nil, domain.ErrAssistantDisabled
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(assistantUserPrompt, req.Location, req.BriefInput)},
		},
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("❌ Description assistant failed: %v", err)
		return nil, fmt.Errorf("generate description: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.ErrAssistantNoContent
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	text = strings.TrimSpace(strings.TrimPrefix(text, "Suggested Description:"))
	if text == "" {
		return nil, domain.ErrAssistantNoContent
	}

	return &domain.Suggestion{SuggestedDescription: text}, nil
}
