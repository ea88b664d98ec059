package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillswap/internal/service"
)

// FeedbackHandler serves the feedback ledger.
type FeedbackHandler struct {
	feedback service.FeedbackService
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(feedback service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// SubmitFeedbackRequest rates the other participant of an accepted swap.
// ToUserID may be omitted.
type SubmitFeedbackRequest struct {
	SwapID   uuid.UUID `json:"swap_id" validate:"required"`
	ToUserID uuid.UUID `json:"to_user_id"`
	Rating   int       `json:"rating"`
	Text     string    `json:"feedback_text" validate:"max=2000"`
}

// Submit godoc
// @Summary Rate a completed swap
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitFeedbackRequest true "Rating 1-5 and optional text"
// @Success 201 {object} service.FeedbackView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req SubmitFeedbackRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	fb, err := h.feedback.Submit(c.Request().Context(), id.UserID, service.SubmitFeedbackInput{
		SwapID:   req.SwapID,
		ToUserID: req.ToUserID,
		Rating:   req.Rating,
		Text:     req.Text,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, fb)
}

// ListForUser godoc
// @Summary List feedback a user gave or received
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role query string false "given or received (default)"
// @Success 200 {array} service.FeedbackView
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/users/{id} [get]
func (h *FeedbackHandler) ListForUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	role := c.QueryParam("role")
	if role == "" {
		role = service.FeedbackReceived
	}

	items, err := h.feedback.ListFor(c.Request().Context(), id.UserID, userID, role)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListForSwap godoc
// @Summary List the feedback of a swap
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {array} service.FeedbackView
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/swaps/{id} [get]
func (h *FeedbackHandler) ListForSwap(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.feedback.ListForSwap(c.Request().Context(), id.UserID, swapID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}
