package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillswap/internal/service"
)

// UserHandler serves profile, skill tagging and search endpoints.
type UserHandler struct {
	users  service.UserService
	search service.SearchService
}

// NewUserHandler creates a user handler.
func NewUserHandler(users service.UserService, search service.SearchService) *UserHandler {
	return &UserHandler{users: users, search: search}
}

// UpdateProfileRequest is a partial profile update. Skill lists replace the whole set.
type UpdateProfileRequest struct {
	Name          *string      `json:"name" validate:"omitempty,max=100"`
	Location      *string      `json:"location" validate:"omitempty,max=100"`
	ProfilePhoto  *string      `json:"profile_photo" validate:"omitempty,max=255"`
	Availability  *string      `json:"availability" validate:"omitempty,max=100"`
	Visibility    *string      `json:"visibility" validate:"omitempty,oneof=public private"`
	SkillsOffered *[]uuid.UUID `json:"skills_offered"`
	SkillsWanted  *[]uuid.UUID `json:"skills_wanted"`
}

// AddSkillRequest tags the caller with a catalog skill.
type AddSkillRequest struct {
	SkillID   uuid.UUID `json:"skill_id" validate:"required"`
	Direction string    `json:"direction" validate:"required,oneof=offered wanted"`
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	profile, err := h.users.GetProfile(c.Request().Context(), id.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.users.UpdateProfile(c.Request().Context(), id.UserID, service.UpdateProfileInput{
		Name:          req.Name,
		Location:      req.Location,
		ProfilePhoto:  req.ProfilePhoto,
		Availability:  req.Availability,
		Visibility:    req.Visibility,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ListSkills godoc
// @Summary List the caller's skills
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserSkills
// @Router /users/me/skills [get]
func (h *UserHandler) ListSkills(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	skills, err := h.users.ListSkills(c.Request().Context(), id.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, skills)
}

// AddSkill godoc
// @Summary Tag the caller with a skill
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddSkillRequest true "Skill and direction"
// @Success 201 {object} service.UserSkills
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/me/skills [post]
func (h *UserHandler) AddSkill(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req AddSkillRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	skills, err := h.users.AddSkill(c.Request().Context(), id.UserID, req.SkillID, req.Direction)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, skills)
}

// RemoveSkill godoc
// @Summary Remove a skill tag from the caller
// @Tags users
// @Security BearerAuth
// @Param skill_id path string true "Skill ID"
// @Param direction query string true "offered or wanted"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me/skills/{skill_id} [delete]
func (h *UserHandler) RemoveSkill(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	skillID, err := uuidParam(c, "skill_id")
	if err != nil {
		return err
	}
	if err := h.users.RemoveSkill(c.Request().Context(), id.UserID, skillID, c.QueryParam("direction")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Search godoc
// @Summary Search public profiles by skill and availability
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skill query string false "Skill name substring"
// @Param direction query string false "offered or wanted"
// @Param availability query string false "Availability substring"
// @Param page query int false "Page number, from 1"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	q := service.SearchQuery{
		Skill:        c.QueryParam("skill"),
		Direction:    c.QueryParam("direction"),
		Availability: c.QueryParam("availability"),
		Page:         1,
	}
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("size", &q.Size).
		BindError(); err != nil {
		return badRequest("page and size must be integers")
	}

	result, err := h.search.Search(c.Request().Context(), id.UserID, q)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary Get another user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.PublicProfile
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.users.GetUser(c.Request().Context(), id.UserID, userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}
