package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gallocedrone/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		svc: svc,
	}
}

type createCompletionRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	// Optional; today when absent.
	Date *time.Time `json:"date"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.GET("", h.List)
		completions.POST("", h.Create)
		completions.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary  List the caller's completions
// @Tags     completions
// @Produce  json
// @Param    from query string false "inclusive lower bound (RFC3339)"
// @Param    to   query string false "inclusive upper bound (RFC3339)"
// @Success  200 {array} domain.Completion
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /completions [get]
func (h *CompletionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, use RFC3339"})
			return
		}
		from = &t
	}

	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, use RFC3339"})
			return
		}
		to = &t
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if list == nil {
		list = []*domain.Completion{}
	}

	c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary  Mark a habit done on a day
// @Tags     completions
// @Accept   json
// @Produce  json
// @Param    body body createCompletionRequest true "completion data"
// @Success  201 {object} domain.Completion
// @Failure  400 {object} map[string]string
// @Failure  403 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Failure  409 {object} map[string]interface{} "day already marked; body carries the existing completion"
// @Security BearerAuth
// @Router   /completions [post]
func (h *CompletionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateCompletionInput{
		HabitID: req.HabitID,
		UserID:  userID,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	completion, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompletionExists):
			// Not a failure from the client's point of view: the day is
			// already marked. Return the surviving record so the caller can
			// reconcile without a refetch.
			c.JSON(http.StatusConflict, gin.H{
				"error":      "completion already exists for this date",
				"completion": completion,
			})
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		case errors.Is(err, domain.ErrCompletionHabitRequired),
			errors.Is(err, domain.ErrCompletionDateRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, completion)
}

// Delete godoc
// @Summary  Unmark a completion
// @Tags     completions
// @Param    id path string true "completion id"
// @Success  204
// @Failure  403 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /completions/{id} [delete]
func (h *CompletionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	err := h.svc.Delete(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompletionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "completion not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
