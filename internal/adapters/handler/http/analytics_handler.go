package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/services"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("/:id/grid", h.Grid)
		habits.GET("/:id/streaks", h.Streaks)
		habits.GET("/:id/performance", h.Performance)
	}
}

func (h *AnalyticsHandler) Grid(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required (yyyy-MM-dd)"})
		return
	}

	grid, err := h.svc.Grid(c.Request.Context(), userID, c.Param("id"), start, end)
	if err != nil {
		handleSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": grid})
}

func (h *AnalyticsHandler) Streaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	topK := 0
	if raw := c.Query("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a positive integer"})
			return
		}
		topK = parsed
	}

	summary, err := h.svc.Streaks(c.Request.Context(), userID, c.Param("id"), topK)
	if err != nil {
		handleSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) Performance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	period := c.DefaultQuery("period", services.PeriodWeekly)

	points, err := h.svc.Performance(c.Request.Context(), userID, c.Param("id"), period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		handleSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "points": points})
}
