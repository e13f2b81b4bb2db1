package controllers

import (
	"net/http"
	"time"

	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Svc *services.ChatService
}

func NewChatController(svc *services.ChatService) *ChatController {
	return &ChatController{Svc: svc}
}

type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatController) SendMessage(c *gin.Context) {
	userID := c.GetUint("userID")

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.Svc.SendMessage(c.Request.Context(), userID, input.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   reply,
		"timestamp": time.Now(),
	})
}

func (h *ChatController) GetHistory(c *gin.Context) {
	userID := c.GetUint("userID")

	msgs, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *ChatController) ClearHistory(c *gin.Context) {
	userID := c.GetUint("userID")

	if err := h.Svc.ClearHistory(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared successfully"})
}
