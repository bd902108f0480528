package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorhours/internal/api"
	"tutorhours/internal/logger"
)

type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

type actionRequest struct {
	Target string `json:"target" binding:"required,oneof=orders reservations"`
	Action string `json:"action" binding:"required,oneof=approve reject"`
	IDs    []int  `json:"ids" binding:"required,min=1"`
}

// Apply godoc
// @Summary      Apply bulk action
// @Description  Approves or rejects a set of orders or reservations. Records that cannot change are skipped, never an error.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      actionRequest  true  "Bulk command"
// @Success      200      {object}  Summary
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/actions [post]
func (h *Handler) Apply(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.dispatcher.Apply(c.Request.Context(), req.Target, req.Action, req.IDs)
	if err != nil {
		if errors.Is(err, ErrUnknownTarget) || errors.Is(err, ErrUnknownAction) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Bulk action failed", "target", req.Target, "action", req.Action, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Bulk action failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
