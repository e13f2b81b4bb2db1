package controllers

import (
	"net/http"
	"strconv"

	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

func ListAlerts(c *gin.Context) {
	userID := c.GetUint("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	alerts, err := services.ListAlerts(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}
