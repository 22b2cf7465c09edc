package router

import (
	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("", h.Register)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/messages", h.ListMessages)
}
