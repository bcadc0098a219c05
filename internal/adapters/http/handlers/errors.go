package handlers

import (
	"errors"
	"log"

	"roadcare/internal/core/domain"
	"roadcare/internal/core/session"
	"roadcare/internal/pkg/apiclient"
	"roadcare/internal/pkg/response"
	"roadcare/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// fail maps a service error onto the response envelope
func fail(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	var authErr *apiclient.AuthError
	var reqErr *apiclient.RequestError

	switch {
	case errors.As(err, &verr):
		return response.Fields(c, verr.Error(), verr.Fields)

	case errors.Is(err, domain.ErrSessionExpired):
		return response.ErrorWithRedirect(c, fiber.StatusUnauthorized, domain.ErrSessionExpired.Error(), session.LoginPath)

	case errors.Is(err, domain.ErrUnauthorized):
		return response.ErrorWithRedirect(c, fiber.StatusUnauthorized, "Authentication required", session.LoginPath)

	case errors.As(err, &authErr):
		// Only sign-in and sign-up return a raw AuthError
		return response.Error(c, authErr.StatusCode, authErr.Message)

	case errors.As(err, &reqErr):
		return response.Error(c, reqErr.StatusCode, reqErr.Message)

	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrIssueNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrAssistantDisabled):
		return response.ServiceUnavailable(c, err.Error())

	case errors.Is(err, domain.ErrAssistantNoContent):
		return response.Error(c, fiber.StatusBadGateway, err.Error())

	default:
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Internal Server Error")
	}
}
