package router

import (
	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/handler"
)

func AnalyticsRouter(rg *gin.RouterGroup, h *handler.AnalyticsHandler) {
	rg.GET("/users/:id/sentiment", h.Sentiment)
	rg.GET("/users/:id/mood-trend", h.MoodTrend)
	rg.GET("/users/:id/alerts", h.Alerts)
}
