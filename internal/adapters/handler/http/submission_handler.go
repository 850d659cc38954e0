package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/services"
)

type SubmissionHandler struct {
	svc *services.SubmissionService
}

func NewSubmissionHandler(svc *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		svc: svc,
	}
}

type toggleRequest struct {
	DateFor string `json:"date_for" binding:"required"`
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("/:id/submissions", h.List)
		habits.POST("/:id/submissions/toggle", h.Toggle)
	}
}

func (h *SubmissionHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.svc.Toggle(c.Request.Context(), userID, c.Param("id"), req.DateFor)
	if err != nil {
		handleSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubmissionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required (yyyy-MM-dd)"})
		return
	}

	list, err := h.svc.ListRange(c.Request.Context(), userID, c.Param("id"), from, to)
	if err != nil {
		handleSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrHabitArchived):
		c.JSON(http.StatusConflict, gin.H{"error": "habit is archived"})

	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrRangeTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
