package controllers

import (
	"net/http"

	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	Svc *services.InsightService
}

func NewInsightController(svc *services.InsightService) *InsightController {
	return &InsightController{Svc: svc}
}

// GetInsights always answers 200 with a full-shape object; upstream failures
// are absorbed by the service's fallback.
func (h *InsightController) GetInsights(c *gin.Context) {
	userID := c.GetUint("userID")

	out, err := h.Svc.Insights(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
