package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodline.app/pulse/internal/http/handler"
	"moodline.app/pulse/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		userHandler := handler.NewUserHandler(services.Users(), services.Messages())
		UserRouter(v1.Group("/users"), userHandler)

		chatHandler := handler.NewChatHandler(services.Chat())
		ChatRouter(v1.Group("/chat"), chatHandler)

		messageHandler := handler.NewMessageHandler(services.Messages())
		MessageRouter(v1.Group("/messages"), messageHandler)

		analyticsHandler := handler.NewAnalyticsHandler(services.Analytics())
		AnalyticsRouter(v1.Group("/analytics"), analyticsHandler)
	}
}
