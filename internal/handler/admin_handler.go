package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/service"
)

// AdminHandler serves moderation and reporting endpoints. Routes are
// mounted behind RequireAdmin.
type AdminHandler struct {
	admin service.AdminService
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// CreateSkillRequest adds a catalog entry.
type CreateSkillRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SeedResponse reports how many skills a seed run inserted.
type SeedResponse struct {
	Created int `json:"created"`
}

// Stats godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PlatformStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size, at most 1000"
// @Success 200 {array} model.User
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	offset, limit, err := offsetLimit(c)
	if err != nil {
		return err
	}
	users, err := h.admin.ListUsers(c.Request().Context(), offset, limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Ban godoc
// @Summary Hide a user's profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/ban [put]
func (h *AdminHandler) Ban(c echo.Context) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.admin.Ban(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Unban godoc
// @Summary Make a user's profile public again
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/unban [put]
func (h *AdminHandler) Unban(c echo.Context) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.admin.Unban(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListSwaps godoc
// @Summary List all swap requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size, at most 1000"
// @Success 200 {array} service.SwapView
// @Router /admin/swaps [get]
func (h *AdminHandler) ListSwaps(c echo.Context) error {
	offset, limit, err := offsetLimit(c)
	if err != nil {
		return err
	}
	swaps, err := h.admin.ListSwaps(c.Request().Context(), c.QueryParam("status"), offset, limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, swaps)
}

// ListFeedback godoc
// @Summary List all feedback
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size, at most 1000"
// @Success 200 {array} service.FeedbackView
// @Router /admin/feedback [get]
func (h *AdminHandler) ListFeedback(c echo.Context) error {
	offset, limit, err := offsetLimit(c)
	if err != nil {
		return err
	}
	items, err := h.admin.ListFeedback(c.Request().Context(), offset, limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// DeleteSwap godoc
// @Summary Delete a swap request and its feedback
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/swaps/{id} [delete]
func (h *AdminHandler) DeleteSwap(c echo.Context) error {
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteSwap(c.Request().Context(), swapID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteFeedback godoc
// @Summary Delete a feedback entry
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/feedback/{id} [delete]
func (h *AdminHandler) DeleteFeedback(c echo.Context) error {
	feedbackID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteFeedback(c.Request().Context(), feedbackID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSkill godoc
// @Summary Add a catalog skill
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSkillRequest true "Skill name"
// @Success 201 {object} model.Skill
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/skills [post]
func (h *AdminHandler) CreateSkill(c echo.Context) error {
	var req CreateSkillRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	skill, err := h.admin.CreateSkill(c.Request().Context(), req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, skill)
}

// SeedSkills godoc
// @Summary Insert the default skill catalog
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedResponse
// @Router /admin/skills/seed [post]
func (h *AdminHandler) SeedSkills(c echo.Context) error {
	created, err := h.admin.SeedSkills(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, SeedResponse{Created: created})
}
