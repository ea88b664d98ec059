package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillswap/internal/model"
	"skillswap/internal/service"
)

// SwapHandler serves swap request endpoints.
type SwapHandler struct {
	swaps service.SwapService
}

// NewSwapHandler creates a swap handler.
func NewSwapHandler(swaps service.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

// CreateSwapRequest proposes an exchange of one skill for another.
type CreateSwapRequest struct {
	ReceiverID      uuid.UUID `json:"receiver_id" validate:"required"`
	SenderSkillID   uuid.UUID `json:"sender_skill_id" validate:"required"`
	ReceiverSkillID uuid.UUID `json:"receiver_skill_id" validate:"required"`
	Message         string    `json:"message" validate:"max=1000"`
}

// UpdateSwapStatusRequest is the receiver's answer to a pending request.
type UpdateSwapStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// Create godoc
// @Summary Propose a skill swap
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSwapRequest true "Swap proposal"
// @Success 201 {object} service.SwapView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /swaps [post]
func (h *SwapHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateSwapRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	swap, err := h.swaps.Create(c.Request().Context(), id.UserID, service.CreateSwapInput{
		ReceiverID:      req.ReceiverID,
		SenderSkillID:   req.SenderSkillID,
		ReceiverSkillID: req.ReceiverSkillID,
		Message:         req.Message,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, swap)
}

// List godoc
// @Summary List the caller's sent or received swap requests
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param direction query string false "sent (default) or received"
// @Param status query string false "pending, accepted, rejected or cancelled"
// @Success 200 {array} service.SwapView
// @Failure 400 {object} errors.ErrorResponse
// @Router /swaps [get]
func (h *SwapHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	direction := c.QueryParam("direction")
	if direction == "" {
		direction = service.SwapsSent
	}

	swaps, err := h.swaps.ListMine(c.Request().Context(), id.UserID, direction, c.QueryParam("status"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, swaps)
}

// Get godoc
// @Summary Get a swap request the caller takes part in
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} service.SwapView
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /swaps/{id} [get]
func (h *SwapHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	swap, err := h.swaps.Get(c.Request().Context(), swapID, id.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, swap)
}

// UpdateStatus godoc
// @Summary Accept or reject a pending request
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Param request body UpdateSwapStatusRequest true "New status"
// @Success 200 {object} service.SwapView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /swaps/{id}/status [put]
func (h *SwapHandler) UpdateStatus(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateSwapStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	swap, err := h.swaps.Transition(c.Request().Context(), swapID, id.UserID, model.SwapStatus(req.Status))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, swap)
}

// Cancel godoc
// @Summary Withdraw a pending request the caller sent
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID"
// @Success 200 {object} service.SwapView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /swaps/{id} [delete]
func (h *SwapHandler) Cancel(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	swap, err := h.swaps.Cancel(c.Request().Context(), swapID, id.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, swap)
}
