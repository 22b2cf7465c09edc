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

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Send processes one chat turn: persist the user message, classify it,
// generate and persist the bot reply.
func (h *ChatHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turn, err := h.chatService.ProcessTurn(ctx, req.UserID, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to process chat turn", "error", err, "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process chat turn"})
		return
	}

	c.JSON(http.StatusOK, dto.ToChatResponse(turn))
}
