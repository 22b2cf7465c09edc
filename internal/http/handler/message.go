package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/dto"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetAnalysis returns the classifier verdict for one message. 404 covers
// both a missing message and a verdict that has not landed yet.
func (h *MessageHandler) GetAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	analysis, err := h.messageService.GetAnalysis(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found for this message"})
			return
		}
		slog.ErrorContext(ctx, "failed to load analysis", "error", err, "message_id", messageID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalysisResponse(analysis))
}
