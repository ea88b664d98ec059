package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"skillswap/internal/service"
)

// SkillHandler serves the skill catalog.
type SkillHandler struct {
	skills service.SkillService
}

// NewSkillHandler creates a skill handler.
func NewSkillHandler(skills service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List godoc
// @Summary List catalog skills
// @Description Returns every skill ordered by name, or those whose name contains q.
// @Tags skills
// @Produce json
// @Param q query string false "Name substring"
// @Success 200 {array} model.Skill
// @Router /skills [get]
func (h *SkillHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		skills, err := h.skills.Match(ctx, q)
		if err != nil {
			return fail(err)
		}
		return c.JSON(http.StatusOK, skills)
	}

	skills, err := h.skills.List(ctx)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, skills)
}
