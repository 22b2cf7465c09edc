package router

import (
	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/handler"
)

func ChatRouter(rg *gin.RouterGroup, h *handler.ChatHandler) {
	rg.POST("", h.Send)
}
