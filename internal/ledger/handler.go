package ledger

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
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetStudyHours godoc
// @Summary      Get study-hour balance
// @Description  Returns the available study hours of the authenticated student. A fresh account starts at zero.
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /user/study_hours [get]
func (h *Handler) GetStudyHours(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	balance, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to read balance", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read study hours"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{StudyHours: balance})
}

// ListAccounts godoc
// @Summary      List ledger accounts
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   AccountWithUser
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/ledger [get]
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.repo.ListAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list ledger accounts", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

type setBalanceRequest struct {
	StudyHours *int `json:"study_hours" binding:"required"`
}

// SetBalance godoc
// @Summary      Set a student's study-hour balance
// @Description  Staff adjustment; the difference is recorded as an adjustment entry.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID   path      int                true  "User ID"
// @Param        request  body      setBalanceRequest  true  "New balance"
// @Success      200      {object}  Account
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/ledger/{userID} [patch]
func (h *Handler) SetBalance(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	var req setBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "study_hours is required"})
		return
	}

	account, err := h.repo.SetBalance(c.Request.Context(), userID, *req.StudyHours)
	if err != nil {
		if errors.Is(err, ErrNegativeBalance) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Balance cannot be negative"})
			return
		}
		logger.Error("Failed to set balance", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to set balance"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetEntries godoc
// @Summary      List ledger entries for a user
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true   "User ID"
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Entry
// @Failure      400     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /admin/ledger/{userID}/entries [get]
func (h *Handler) GetEntries(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.repo.GetEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("Failed to list ledger entries", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
