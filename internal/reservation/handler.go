package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tutorhours/internal/api"
	"tutorhours/internal/auth"
	"tutorhours/internal/ledger"
	"tutorhours/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create reservation
// @Description  Books a pending lesson slot for the authenticated student.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Slot times"
// @Success      201      {object}  Reservation
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) Create(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.service.Create(c.Request.Context(), studentID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create reservation", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create reservation"})
		return
	}

	c.JSON(http.StatusCreated, res)
}

// List godoc
// @Summary      List reservations
// @Description  Staff see every reservation; students see their own, minus hidden rejected ones.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Reservation
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations [get]
func (h *Handler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if auth.IsStaff(c) {
		reservations, err := h.service.ListAll(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list reservations", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list reservations"})
			return
		}
		c.JSON(http.StatusOK, reservations)
		return
	}

	reservations, err := h.service.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list reservations", "student_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ListAll godoc
// @Summary      List all reservations
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ReservationWithUser
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/reservations [get]
func (h *Handler) ListAll(c *gin.Context) {
	reservations, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list reservations", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// UpdateStatus godoc
// @Summary      Update reservation status
// @Description  Approving debits one study hour; re-approving is a no-op. Rejecting works from any state and never refunds.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reservationID  path      int                  true  "Reservation ID"
// @Param        request        body      UpdateStatusRequest  true  "New status"
// @Success      200            {object}  api.StatusResponse
// @Failure      400            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Failure      500            {object}  api.ErrorResponse
// @Router       /admin/reservations/{reservationID} [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid reservation ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Status must be approved or rejected"})
		return
	}

	var (
		res     *Reservation
		changed bool
	)
	if req.Status == StatusApproved {
		res, changed, err = h.service.Approve(c.Request.Context(), id)
	} else {
		res, changed, err = h.service.Reject(c.Request.Context(), id)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Reservation not found"})
		case errors.Is(err, ledger.ErrInsufficientHours):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Student has insufficient study hours"})
		default:
			logger.Error("Failed to update reservation status", "reservation_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, api.StatusResponse{Status: res.Status, Changed: changed})
}

// Delete godoc
// @Summary      Delete own reservation
// @Description  Students may delete their own reservation while it is still pending.
// @Tags         reservations
// @Security     BearerAuth
// @Param        reservationID  path  int  true  "Reservation ID"
// @Success      204
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid reservation ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, studentID); err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Reservation not found"})
		case errors.Is(err, ErrNotDeletable):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to delete reservation", "reservation_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete reservation"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// HideRejected godoc
// @Summary      Hide rejected reservations
// @Description  Hides every rejected reservation from the student's list. Safe to call repeatedly.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations/hide_rejected [post]
func (h *Handler) HideRejected(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	hidden, err := h.service.HideRejected(c.Request.Context(), studentID)
	if err != nil {
		logger.Error("Failed to hide rejected reservations", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to hide rejected reservations"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Hidden " + strconv.Itoa(hidden) + " rejected reservations"})
}
