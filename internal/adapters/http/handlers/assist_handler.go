package handlers

import (
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AssistHandler serves the description assistant
type AssistHandler struct {
	assistant *services.AssistantService
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(assistant *services.AssistantService) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// SuggestDescription drafts an issue description from a location and a short note
// @Summary Suggest issue description
// @Tags Assist
// @Accept json
// @Produce json
// @Param body body domain.SuggestionRequest true "Location and brief input"
// @Success 200 {object} response.Response{data=domain.Suggestion}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /assist/description [post]
func (h *AssistHandler) SuggestDescription(c *fiber.Ctx) error {
	var req domain.SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	suggestion, err := h.assistant.Suggest(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", suggestion)
}
