package controllers

import (
	"net/http"
	"strconv"

	"github.com/mehrap673/WellBud/models"
	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GetAnalytics returns {logs, streak, totalLogs} for one category over a
// trailing window (default 7 days).
func (h *AnalyticsController) GetAnalytics(c *gin.Context) {
	userID := c.GetUint("userID")

	category := c.Query("category")
	if category != "" && !models.ValidCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	out, err := h.Svc.Analytics(c.Request.Context(), userID, category, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetDetailedAnalytics exposes the full cross-category aggregation that also
// feeds the Insight Composer.
func (h *AnalyticsController) GetDetailedAnalytics(c *gin.Context) {
	userID := c.GetUint("userID")

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	out, err := h.Svc.DetailedAnalytics(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
