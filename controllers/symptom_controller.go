package controllers

import (
	"errors"
	"net/http"

	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

type SymptomController struct {
	Svc *services.SymptomService
}

func NewSymptomController(svc *services.SymptomService) *SymptomController {
	return &SymptomController{Svc: svc}
}

type SymptomInput struct {
	Symptoms []string `json:"symptoms" binding:"required"`
}

func (h *SymptomController) AnalyzeSymptoms(c *gin.Context) {
	var input SymptomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least one symptom"})
		return
	}

	out, err := h.Svc.Analyze(c.Request.Context(), input.Symptoms)
	if err != nil {
		if errors.Is(err, services.ErrNoSymptoms) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least one symptom"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
