package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gallocedrone/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/gallocedrone/habitgrid/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetUserStats)
}

// GetUserStats godoc
// @Summary  Streak and consistency figures per habit
// @Tags     stats
// @Produce  json
// @Success  200 {object} domain.UserStats
// @Security BearerAuth
// @Router   /stats [get]
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stats, err := h.svc.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
