package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tutorhours/internal/api"
	"tutorhours/internal/auth"
	"tutorhours/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create order
// @Description  Creates a pending purchase order for study hours and updates the student's contact fields.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Order data"
// @Success      201      {object}  Order
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /orders [post]
func (h *Handler) Create(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	o, err := h.service.Create(c.Request.Context(), studentID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidHours),
			errors.Is(err, ErrTermsNotAccepted),
			errors.Is(err, ErrGDPRNotAccepted),
			errors.Is(err, ErrEmailInUse):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create order", "student_id", studentID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, o)
}

// CreateHourOrder godoc
// @Summary      Create hour order
// @Description  Shorthand reorder using the contact fields already on file.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateHourOrderRequest  true  "Hours"
// @Success      201      {object}  Order
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /orders/hours [post]
func (h *Handler) CreateHourOrder(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateHourOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid number of hours"})
		return
	}

	o, err := h.service.CreateHourOrder(c.Request.Context(), studentID, req.Hours)
	if err != nil {
		if errors.Is(err, ErrInvalidHours) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create hour order", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, o)
}

// ListMine godoc
// @Summary      List own orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Order
// @Failure      500  {object}  api.ErrorResponse
// @Router       /orders [get]
func (h *Handler) ListMine(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	orders, err := h.service.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		logger.Error("Failed to list orders", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetUserProfile godoc
// @Summary      Get profile summary
// @Description  Returns the username plus order flags driving the student dashboard.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  ProfileSummary
// @Failure      500  {object}  api.ErrorResponse
// @Router       /user/profile [get]
func (h *Handler) GetUserProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	summary, err := h.service.GetProfileSummary(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to build profile summary", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListAll godoc
// @Summary      List all orders
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Order
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/orders [get]
func (h *Handler) ListAll(c *gin.Context) {
	orders, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Approve godoc
// @Summary      Approve order
// @Description  Credits the student's study hours. Re-approving a processed order is a no-op.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  api.StatusResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/orders/{orderID}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid order ID"})
		return
	}

	o, changed, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Order not found"})
			return
		}
		logger.Error("Failed to approve order", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to approve order"})
		return
	}

	c.JSON(http.StatusOK, api.StatusResponse{Status: o.Status, Changed: changed})
}

// Reject godoc
// @Summary      Reject order
// @Description  Rejects a pending order. Terminal orders are a no-op.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  api.StatusResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/orders/{orderID}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid order ID"})
		return
	}

	o, changed, err := h.service.Reject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Order not found"})
			return
		}
		logger.Error("Failed to reject order", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to reject order"})
		return
	}

	c.JSON(http.StatusOK, api.StatusResponse{Status: o.Status, Changed: changed})
}
