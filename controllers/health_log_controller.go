package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mehrap673/WellBud/models"
	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type CreateLogInput struct {
	Category   string         `json:"category" binding:"required"`
	Payload    datatypes.JSON `json:"payload" binding:"required"`
	OccurredAt *time.Time     `json:"occurredAt"`
}

func CreateHealthLog(c *gin.Context) {
	userID := c.GetUint("userID")

	var input CreateLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategories[input.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be one of diet, fitness, sleep, mood"})
		return
	}

	log, err := services.CreateHealthLog(userID, input.Category, input.Payload, input.OccurredAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, log)
}

func GetHealthLogs(c *gin.Context) {
	userID := c.GetUint("userID")
	category := c.Query("category")

	if category != "" && !models.ValidCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if t, err = time.ParseInLocation("2006-01-02", v, time.Local); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
				return
			}
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if t, err = time.ParseInLocation("2006-01-02", v, time.Local); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
		}
		to = &t
	}

	logs, err := services.ListHealthLogs(userID, category, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

type UpdateLogInput struct {
	Payload    datatypes.JSON `json:"payload"`
	OccurredAt *time.Time     `json:"occurredAt"`
}

func UpdateHealthLog(c *gin.Context) {
	userID := c.GetUint("userID")

	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var input UpdateLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := services.UpdateHealthLog(userID, uint(logID), input.Payload, input.OccurredAt)
	if err != nil {
		if errors.Is(err, services.ErrLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, log)
}

func DeleteHealthLog(c *gin.Context) {
	userID := c.GetUint("userID")

	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	if err := services.DeleteHealthLog(userID, uint(logID)); err != nil {
		if errors.Is(err, services.ErrLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log deleted successfully"})
}
