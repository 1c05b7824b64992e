package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gallocedrone/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	IsFavorite  *bool   `json:"is_favorite"`
	// Legacy clients send "favorite"; accepted on input only, never emitted.
	Favorite *bool `json:"favorite"`
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsFavorite  *bool   `json:"is_favorite"`
	Favorite    *bool   `json:"favorite"`
}

// mergeFavorite collapses the two accepted spellings into the canonical one.
func mergeFavorite(canonical, legacy *bool) *bool {
	if canonical != nil {
		return canonical
	}
	return legacy
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    body body createHabitRequest true "habit data"
// @Success  201 {object} domain.Habit
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isFavorite := false
	if fav := mergeFavorite(req.IsFavorite, req.Favorite); fav != nil {
		isFavorite = *fav
	}

	input := services.CreateHabitInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsFavorite:  isFavorite,
	}

	habit, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		if isHabitValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List the caller's habits
// @Tags     habits
// @Produce  json
// @Success  200 {array} domain.Habit
// @Security BearerAuth
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if list == nil {
		list = []*domain.Habit{}
	}

	c.JSON(http.StatusOK, list)
}

// Update godoc
// @Summary  Partially update a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id   path string             true "habit id"
// @Param    body body updateHabitRequest true "fields to change"
// @Success  200 {object} domain.Habit
// @Failure  400 {object} map[string]string
// @Failure  403 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsFavorite:  mergeFavorite(req.IsFavorite, req.Favorite),
	}

	habit, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		case isHabitValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary  Delete a habit and its completions
// @Tags     habits
// @Param    id path string true "habit id"
// @Success  204
// @Failure  403 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	err := h.svc.Delete(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
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

func isHabitValidationError(err error) bool {
	return errors.Is(err, domain.ErrHabitNameEmpty) ||
		errors.Is(err, domain.ErrHabitNameTooLong) ||
		errors.Is(err, domain.ErrHabitDescTooLong) ||
		errors.Is(err, domain.ErrInvalidColor)
}
