package handlers

import (
	"roadcare/internal/adapters/http/middleware"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/pagination"
	"roadcare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IssueHandler handles road-surface issue and response endpoints
type IssueHandler struct{}

// NewIssueHandler creates a new issue handler
func NewIssueHandler() *IssueHandler {
	return &IssueHandler{}
}

// StatusRequest is the body of a status change
type StatusRequest struct {
	Status string `json:"status"`
}

// CommentRequest is the body of a response create or edit
type CommentRequest struct {
	Comment            string `json:"comment"`
	RoadSurfaceIssueID string `json:"roadSurfaceIssueId,omitempty"`
}

func (h *IssueHandler) service(c *fiber.Ctx) *services.IssueService {
	return services.NewIssueService(middleware.Client(c), middleware.Store(c))
}

// Mine lists the signed-in user's issues
// @Summary My issues
// @Tags Issues
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.Issue}
// @Failure 401 {object} response.Response
// @Router /issues/mine [get]
func (h *IssueHandler) Mine(c *fiber.Ctx) error {
	issues, err := h.service(c).Mine(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", issues)
}

// ByStatus lists issues in one status
// @Summary Issues by status
// @Tags Issues
// @Produce json
// @Param status path string true "Reported, InProgress or Resolved"
// @Success 200 {object} response.Response{data=[]domain.Issue}
// @Failure 400 {object} response.Response
// @Router /issues/status/{status} [get]
func (h *IssueHandler) ByStatus(c *fiber.Ctx) error {
	issues, err := h.service(c).ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", issues)
}

// Detail returns an issue with its responses
// @Summary Issue detail
// @Tags Issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} response.Response{data=domain.Issue}
// @Failure 404 {object} response.Response
// @Router /issues/{id} [get]
func (h *IssueHandler) Detail(c *fiber.Ctx) error {
	issue, err := h.service(c).Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", issue)
}

// Report files a new issue
// @Summary Report issue
// @Tags Issues
// @Accept json
// @Produce json
// @Param body body services.ReportIssueInput true "Issue report"
// @Success 201 {object} response.Response{data=domain.Issue}
// @Failure 400 {object} response.Response
// @Router /issues [post]
func (h *IssueHandler) Report(c *fiber.Ctx) error {
	var in services.ReportIssueInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	issue, err := h.service(c).Report(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Issue reported", issue)
}

// Dashboard lists all issues filtered by status and search term
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Param status query string false "all, Reported, InProgress or Resolved"
// @Param search query string false "Matches description or location"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response{data=services.DashboardPage}
// @Failure 403 {object} response.Response
// @Router /admin/issues [get]
func (h *IssueHandler) Dashboard(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	page, err := h.service(c).Dashboard(c.UserContext(), services.DashboardQuery{
		Status: c.Query("status", services.StatusAll),
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", page)
}

// Update edits an issue
// @Summary Update issue
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param body body services.UpdateIssueInput true "Issue fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/issues/{id} [put]
func (h *IssueHandler) Update(c *fiber.Ctx) error {
	var in services.UpdateIssueInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service(c).Update(c.UserContext(), c.Params("id"), in); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Issue updated", nil)
}

// ChangeStatus moves an issue to another status
// @Summary Change issue status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/issues/{id}/status [put]
func (h *IssueHandler) ChangeStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service(c).ChangeStatus(c.UserContext(), c.Params("id"), req.Status); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Status updated", fiber.Map{"status": req.Status})
}

// Delete removes an issue
// @Summary Delete issue
// @Tags Admin
// @Param id path string true "Issue ID"
// @Success 204
// @Router /admin/issues/{id} [delete]
func (h *IssueHandler) Delete(c *fiber.Ctx) error {
	if err := h.service(c).Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return response.NoContent(c)
}

// Responses lists the official responses to an issue
// @Summary Issue responses
// @Tags Admin
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} response.Response{data=[]domain.Response}
// @Router /admin/issues/{id}/responses [get]
func (h *IssueHandler) Responses(c *fiber.Ctx) error {
	responses, err := h.service(c).Responses(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "", responses)
}

// Respond attaches an official response to an issue
// @Summary Add response
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param body body CommentRequest true "Response comment"
// @Success 201 {object} response.Response{data=domain.Response}
// @Failure 400 {object} response.Response
// @Router /admin/issues/{id}/responses [post]
func (h *IssueHandler) Respond(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	resp, err := h.service(c).Respond(c.UserContext(), c.Params("id"), req.Comment)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Response added", resp)
}

// EditResponse replaces the comment of a response
// @Summary Edit response
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Response ID"
// @Param body body CommentRequest true "Response comment and issue"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/responses/{id} [put]
func (h *IssueHandler) EditResponse(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RoadSurfaceIssueID == "" {
		return response.BadRequest(c, "roadSurfaceIssueId is required")
	}

	if err := h.service(c).EditResponse(c.UserContext(), c.Params("id"), req.RoadSurfaceIssueID, req.Comment); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Response updated", nil)
}

// DeleteResponse removes a response
// @Summary Delete response
// @Tags Admin
// @Param id path string true "Response ID"
// @Success 204
// @Router /admin/responses/{id} [delete]
func (h *IssueHandler) DeleteResponse(c *fiber.Ctx) error {
	if err := h.service(c).DeleteResponse(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return response.NoContent(c)
}
