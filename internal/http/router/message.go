package router

import (
	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/handler"
)

func MessageRouter(rg *gin.RouterGroup, h *handler.MessageHandler) {
	rg.GET("/:id/analysis", h.GetAnalysis)
}
