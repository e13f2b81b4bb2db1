package routes

import (
	"net/http"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/controllers"
	"github.com/mehrap673/WellBud/middlewares"
	"github.com/mehrap673/WellBud/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	ai := services.NewGeminiClient()

	analyticsCtl := controllers.NewAnalyticsController(services.NewAnalyticsService(config.DB))
	insightCtl := controllers.NewInsightController(services.NewInsightService(config.DB, ai))
	chatCtl := controllers.NewChatController(services.NewChatService(config.DB, ai))
	symptomCtl := controllers.NewSymptomController(services.NewSymptomService(ai))
	realtimeCtl := controllers.NewRealtimeController(hub)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "WellBud API is running",
			"version": "1.0.0",
		})
	})

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected profile routes
	me := r.Group("/api/auth")
	me.Use(middlewares.AuthMiddleware())
	{
		me.GET("/me", controllers.GetProfile)
		me.PUT("/profile", controllers.UpdateProfile)
	}

	// Health logs + analytics + insights
	health := r.Group("/api/health")
	health.Use(middlewares.AuthMiddleware())
	{
		health.POST("/logs", controllers.CreateHealthLog)
		health.GET("/logs", controllers.GetHealthLogs)
		health.PUT("/logs/:id", controllers.UpdateHealthLog)
		health.DELETE("/logs/:id", controllers.DeleteHealthLog)

		health.GET("/analytics", analyticsCtl.GetAnalytics)
		health.GET("/analytics/detailed", analyticsCtl.GetDetailedAnalytics)
		health.GET("/insights", insightCtl.GetInsights)
	}

	// Chat assistant
	chat := r.Group("/api/chat")
	chat.Use(middlewares.AuthMiddleware())
	{
		chat.POST("", chatCtl.SendMessage)
		chat.GET("/history", chatCtl.GetHistory)
		chat.DELETE("/history", chatCtl.ClearHistory)
	}

	// Symptom triage
	symptoms := r.Group("/api/symptoms")
	symptoms.Use(middlewares.AuthMiddleware())
	{
		symptoms.POST("/analyze", symptomCtl.AnalyzeSymptoms)
	}

	// Alerts
	alerts := r.Group("/api/alerts")
	alerts.Use(middlewares.AuthMiddleware())
	{
		alerts.GET("", controllers.ListAlerts)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/alerts", realtimeCtl.AlertsWS)
	}

	return r
}
